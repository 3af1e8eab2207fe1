// Package order implements the order commit workflow: stock reservation,
// cart resolution, campaign pricing, persistence, and the order-created
// notification.
package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"bookstore-order-api/internal/domain/product"
)

// ErrNotFound indicates a requested order id does not exist.
var ErrNotFound = errors.New("order not found")

// Order is a committed order row. It is created exactly once and never
// mutated afterwards.
type Order struct {
	ID                   int64
	PriceWithoutDiscount decimal.Decimal
	DiscountedPrice      decimal.Decimal
	CampaignID           *int64
	UserID               int64
}

// View is the fully hydrated order returned to callers: the order row plus
// the user, the winning campaign's description, and the line products with
// their category titles.
type View struct {
	Order
	Username            string
	CampaignDescription *string
	Products            []product.WithCategory
}

// Store runs order mutations as a single transactional unit. fn either
// commits in full or everything it did is rolled back.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of operations available inside an order transaction.
type Tx interface {
	// DecrementStock reserves one unit of every product. It fails with
	// ErrInsufficientStock when any product's stock would go below zero,
	// or product.ErrNotFound when an id does not exist; either way the
	// surrounding transaction rolls back.
	DecrementStock(ctx context.Context, productIDs []int64) error
	// ProductsWithCategories resolves the requested ids into cart lines.
	ProductsWithCategories(ctx context.Context, productIDs []int64) ([]product.WithCategory, error)
	// InsertOrder persists the order row and returns its identity.
	InsertOrder(ctx context.Context, o *Order) (int64, error)
	// InsertOrderProducts persists one order line per product id.
	InsertOrderProducts(ctx context.Context, orderID int64, productIDs []int64) error
}

// Views reads hydrated orders outside the commit workflow and removes
// committed orders.
type Views interface {
	GetView(ctx context.Context, id int64) (*View, error)
	ListViews(ctx context.Context) ([]View, error)
	Delete(ctx context.Context, id int64) error
}

// Notifier publishes an order-created event after the transaction commits.
// Delivery is at-least-once; a failure must not undo the committed order.
type Notifier interface {
	OrderCreated(ctx context.Context, o *Order) error
}
