// Package product holds the catalog entities referenced by orders.
package product

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound indicates a requested product id does not exist.
var ErrNotFound = errors.New("product not found")

// Product is one catalog item. StockQuantity never goes below zero; order
// placement reserves stock with a conditional decrement.
type Product struct {
	ID            int64
	Title         string
	CategoryID    int64
	Author        string
	ListPrice     decimal.Decimal
	StockQuantity int
}

// Category groups products and is immutable once created.
type Category struct {
	ID    int64
	Title string
}

// WithCategory pairs a product with its resolved category title, the shape
// cart lines are loaded in.
type WithCategory struct {
	Product
	CategoryTitle string
}
