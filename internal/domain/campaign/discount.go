package campaign

import (
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DiscountedTotal applies the rule's discount to the pre-discount total.
//
// Percent mode: total - total*percent/100.
// Quantity mode: the scope-matching lines are sorted by ascending list price
// and the cheapest Quantity of them are subtracted from the total. When fewer
// matching lines exist than Quantity, all of them are subtracted.
func (r Rule) DiscountedTotal(lines []Line, total decimal.Decimal) decimal.Decimal {
	switch r.Mode {
	case ModePercent:
		pct := decimal.NewFromInt(int64(r.Percent))
		return total.Sub(total.Mul(pct).Div(hundred))
	case ModeQuantity:
		matching := make([]Line, 0, len(lines))
		for _, l := range lines {
			if r.Scope.Matches(l) {
				matching = append(matching, l)
			}
		}
		sort.SliceStable(matching, func(i, j int) bool {
			return matching[i].ListPrice.LessThan(matching[j].ListPrice)
		})
		if len(matching) > r.Quantity {
			matching = matching[:r.Quantity]
		}
		return total.Sub(Subtotal(matching))
	}
	// Rules without a discount mode never parse, so this is unreachable for
	// campaigns that came through Rule().
	return total
}
