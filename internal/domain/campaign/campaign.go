// Package campaign implements the promotional rule engine: parsing flat
// campaign rows into structured rules, evaluating eligibility against a cart,
// calculating discounted totals, and selecting the best offer.
package campaign

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a campaign id does not exist.
var ErrNotFound = errors.New("campaign not found")

// Campaign is one promotional rule row. All rule columns are optional;
// Rule parses them into a structured form the engine evaluates.
type Campaign struct {
	ID          int64
	Description string

	MinPurchasePrice    *decimal.Decimal
	MinPurchaseQuantity *int
	DiscountQuantity    *int
	DiscountPercent     *int
	RuleAuthor          *string
	RuleCategory        *string
}

// Line is one cart entry resolved to the attributes the rule engine needs.
type Line struct {
	ProductID int64
	Author    string
	Category  string
	ListPrice decimal.Decimal
}

// Repository provides access to the authoritative campaign list.
type Repository interface {
	List(ctx context.Context) ([]Campaign, error)
}

// Source yields the campaign list for pricing, possibly through a cache.
// Staleness of up to the cache TTL is acceptable to callers.
type Source interface {
	Get(ctx context.Context) ([]Campaign, error)
}

// Subtotal returns the sum of list prices across all lines.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.ListPrice)
	}
	return sum
}
