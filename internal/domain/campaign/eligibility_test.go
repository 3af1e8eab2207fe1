package campaign

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleEligible(t *testing.T) {
	sciFi := []Line{
		{ProductID: 1, Author: "Frank Herbert", Category: "Science Fiction", ListPrice: d("12.990")},
		{ProductID: 2, Author: "Isaac Asimov", Category: "Science Fiction", ListPrice: d("10.500")},
		{ProductID: 3, Author: "Dan Simmons", Category: "Science Fiction", ListPrice: d("11.250")},
	}
	mixed := []Line{
		{ProductID: 1, Author: "Frank Herbert", Category: "Science Fiction", ListPrice: d("12.990")},
		{ProductID: 4, Author: "Patrick Rothfuss", Category: "Fantasy", ListPrice: d("14.990")},
	}

	tests := []struct {
		name  string
		rule  Rule
		lines []Line
		want  bool
	}{
		{
			name:  "quantity condition met within category",
			rule:  Rule{Mode: ModeQuantity, Quantity: 1, MinQuantity: ip(3), Scope: Scope{Category: "Science Fiction"}},
			lines: sciFi,
			want:  true,
		},
		{
			name:  "quantity condition counts only scope matches",
			rule:  Rule{Mode: ModeQuantity, Quantity: 1, MinQuantity: ip(2), Scope: Scope{Category: "Science Fiction"}},
			lines: mixed,
			want:  false,
		},
		{
			name:  "quantity condition without scope counts all lines",
			rule:  Rule{Mode: ModePercent, Percent: 10, MinQuantity: ip(2)},
			lines: mixed,
			want:  true,
		},
		{
			name:  "price condition met on full subtotal",
			rule:  Rule{Mode: ModePercent, Percent: 10, MinPrice: dp("27")},
			lines: mixed,
			want:  true,
		},
		{
			name:  "price condition exactly at threshold",
			rule:  Rule{Mode: ModePercent, Percent: 10, MinPrice: dp("27.980")},
			lines: mixed,
			want:  true,
		},
		{
			name:  "price condition just above subtotal",
			rule:  Rule{Mode: ModePercent, Percent: 10, MinPrice: dp("27.981")},
			lines: mixed,
			want:  false,
		},
		{
			name: "price condition ignores scope",
			rule: Rule{
				Mode: ModePercent, Percent: 10,
				MinPrice: dp("27"),
				Scope:    Scope{Category: "Fantasy"},
			},
			lines: mixed,
			want:  true,
		},
		{
			name: "either condition suffices",
			rule: Rule{
				Mode: ModePercent, Percent: 10,
				MinQuantity: ip(10),
				MinPrice:    dp("20"),
			},
			lines: mixed,
			want:  true,
		},
		{
			name:  "no conditions never eligible",
			rule:  Rule{Mode: ModePercent, Percent: 10},
			lines: sciFi,
			want:  false,
		},
		{
			name:  "empty cart fails quantity",
			rule:  Rule{Mode: ModeQuantity, Quantity: 1, MinQuantity: ip(1)},
			lines: nil,
			want:  false,
		},
		{
			name:  "zero min quantity always eligible",
			rule:  Rule{Mode: ModePercent, Percent: 10, MinQuantity: ip(0)},
			lines: nil,
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.Eligible(tt.lines))
		})
	}
}
