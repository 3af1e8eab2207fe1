package campaign

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleDiscountedTotal(t *testing.T) {
	books := []Line{
		{ProductID: 1, Author: "Frank Herbert", Category: "Science Fiction", ListPrice: d("12.990")},
		{ProductID: 2, Author: "Isaac Asimov", Category: "Science Fiction", ListPrice: d("10.500")},
		{ProductID: 3, Author: "Dan Simmons", Category: "Science Fiction", ListPrice: d("11.250")},
		{ProductID: 4, Author: "Patrick Rothfuss", Category: "Fantasy", ListPrice: d("14.990")},
	}

	tests := []struct {
		name  string
		rule  Rule
		lines []Line
		total string
		want  string
	}{
		{
			name:  "ten percent off",
			rule:  Rule{Mode: ModePercent, Percent: 10},
			lines: books,
			total: "100",
			want:  "90",
		},
		{
			name:  "percent applies to shipping-inclusive total",
			rule:  Rule{Mode: ModePercent, Percent: 15},
			lines: books,
			total: "84.730",
			want:  "72.0205",
		},
		{
			name:  "cheapest matching line free",
			rule:  Rule{Mode: ModeQuantity, Quantity: 1, Scope: Scope{Category: "Science Fiction"}},
			lines: books,
			total: "84.730",
			want:  "74.230",
		},
		{
			name:  "two cheapest matching lines free",
			rule:  Rule{Mode: ModeQuantity, Quantity: 2, Scope: Scope{Category: "Science Fiction"}},
			lines: books,
			total: "84.730",
			want:  "62.980",
		},
		{
			name:  "quantity larger than matching lines subtracts them all",
			rule:  Rule{Mode: ModeQuantity, Quantity: 5, Scope: Scope{Category: "Fantasy"}},
			lines: books,
			total: "84.730",
			want:  "69.740",
		},
		{
			name:  "quantity with no matching lines leaves total",
			rule:  Rule{Mode: ModeQuantity, Quantity: 1, Scope: Scope{Category: "History"}},
			lines: books,
			total: "84.730",
			want:  "84.730",
		},
		{
			name:  "hundred percent off",
			rule:  Rule{Mode: ModePercent, Percent: 100},
			lines: books,
			total: "84.730",
			want:  "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rule.DiscountedTotal(tt.lines, d(tt.total))
			assert.True(t, d(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestDiscountedTotalDoesNotReorderInput(t *testing.T) {
	lines := []Line{
		{ProductID: 1, ListPrice: d("30")},
		{ProductID: 2, ListPrice: d("10")},
		{ProductID: 3, ListPrice: d("20")},
	}
	rule := Rule{Mode: ModeQuantity, Quantity: 2}

	got := rule.DiscountedTotal(lines, d("60"))

	assert.True(t, d("30").Equal(got))
	assert.Equal(t, int64(1), lines[0].ProductID)
	assert.Equal(t, int64(2), lines[1].ProductID)
	assert.Equal(t, int64(3), lines[2].ProductID)
}
