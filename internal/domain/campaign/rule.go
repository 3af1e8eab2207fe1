package campaign

import "github.com/shopspring/decimal"

// DiscountMode selects how an eligible campaign reduces the total.
type DiscountMode uint8

const (
	// ModePercent subtracts a percentage of the pre-discount total.
	ModePercent DiscountMode = iota + 1
	// ModeQuantity subtracts the prices of the cheapest N matching lines.
	ModeQuantity
)

// Scope restricts which cart lines a rule considers. Empty fields match
// everything.
type Scope struct {
	Author   string
	Category string
}

// Matches reports whether the line satisfies every populated scope field.
func (s Scope) Matches(l Line) bool {
	if s.Author != "" && l.Author != s.Author {
		return false
	}
	if s.Category != "" && l.Category != s.Category {
		return false
	}
	return true
}

// Rule is the structured form of a campaign's flat rule columns: a discount
// mode, a line scope, and up to two eligibility conditions evaluated as an OR.
type Rule struct {
	Scope    Scope
	Mode     DiscountMode
	Percent  int
	Quantity int

	// MinQuantity makes the rule eligible when at least this many
	// scope-matching lines are in the cart.
	MinQuantity *int
	// MinPrice makes the rule eligible when the cart subtotal (all lines,
	// scope ignored) reaches this amount.
	MinPrice *decimal.Decimal
}

// Rule parses the campaign's columns into a structured rule. ok is false when
// the campaign carries no discount mode: such a campaign can never contribute
// a valid discount and must be excluded from selection, not treated as a
// zero-cost offer.
func (c *Campaign) Rule() (Rule, bool) {
	r := Rule{MinQuantity: c.MinPurchaseQuantity, MinPrice: c.MinPurchasePrice}

	// Percent takes precedence when both discount columns are populated.
	switch {
	case c.DiscountPercent != nil:
		r.Mode = ModePercent
		r.Percent = *c.DiscountPercent
	case c.DiscountQuantity != nil:
		r.Mode = ModeQuantity
		r.Quantity = *c.DiscountQuantity
	default:
		return Rule{}, false
	}

	if c.RuleAuthor != nil {
		r.Scope.Author = *c.RuleAuthor
	}
	if c.RuleCategory != nil {
		r.Scope.Category = *c.RuleCategory
	}
	return r, true
}
