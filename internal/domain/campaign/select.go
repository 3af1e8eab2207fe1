package campaign

import "github.com/shopspring/decimal"

// SelectBest prices every eligible campaign against the cart and returns the
// cheapest resulting total together with the winning campaign's id. Ties
// resolve to the lowest campaign id so the outcome does not depend on list
// order. When no campaign is eligible the pre-discount total stands and the
// returned id is nil.
func SelectBest(campaigns []Campaign, lines []Line, total decimal.Decimal) (decimal.Decimal, *int64) {
	var (
		bestID    int64
		bestTotal decimal.Decimal
		found     bool
	)
	for i := range campaigns {
		c := &campaigns[i]
		r, ok := c.Rule()
		if !ok || !r.Eligible(lines) {
			continue
		}
		t := r.DiscountedTotal(lines, total)
		if !found || t.LessThan(bestTotal) || (t.Equal(bestTotal) && c.ID < bestID) {
			bestID, bestTotal, found = c.ID, t, true
		}
	}
	if !found {
		return total, nil
	}
	return bestTotal, &bestID
}
