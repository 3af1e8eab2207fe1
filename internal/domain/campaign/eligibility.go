package campaign

// Eligible reports whether the cart satisfies at least one of the rule's
// conditions. Quantity conditions count scope-matching lines; price
// conditions compare the undiscounted subtotal of all lines regardless of
// scope. A rule with no conditions is never eligible.
//
// Evaluation is pure: it depends only on the rule and the lines, so repeated
// calls on the same inputs always agree.
func (r Rule) Eligible(lines []Line) bool {
	if r.MinQuantity != nil {
		n := 0
		for _, l := range lines {
			if r.Scope.Matches(l) {
				n++
			}
		}
		if n >= *r.MinQuantity {
			return true
		}
	}
	if r.MinPrice != nil && Subtotal(lines).GreaterThanOrEqual(*r.MinPrice) {
		return true
	}
	return false
}
