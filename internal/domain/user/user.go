// Package user holds the account entity orders are placed against.
package user

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound indicates a requested user id does not exist.
var ErrNotFound = errors.New("user not found")

// User is a customer account.
type User struct {
	ID       int64
	Username string
}

// Repository defines read operations for users.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
}
