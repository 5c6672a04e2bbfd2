package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"aeroparts/domain"
)

func TestPricingCompute(t *testing.T) {
	coupon10 := &domain.Coupon{ID: 1, Name: "Basic", DiscountPercent: 10, Code: "basic1"}

	tests := []struct {
		name    string
		pricing Pricing
		lines   []domain.CartLine
		coupon  *domain.Coupon
		want    Totals
	}{
		{
			name:    "reference cart",
			pricing: DefaultPricing(),
			lines:   []domain.CartLine{Line(product(1, 100000), 2)},
			want:    Totals{Subtotal: 200000, Shipping: 15000, Tax: 38000, Total: 253000, ItemCount: 2},
		},
		{
			name:    "reference cart with coupon",
			pricing: DefaultPricing(),
			lines:   []domain.CartLine{Line(product(1, 100000), 2)},
			coupon:  coupon10,
			want:    Totals{Subtotal: 200000, Discount: 20000, Shipping: 15000, Tax: 34200, Total: 229200, ItemCount: 2},
		},
		{
			name:    "tax rounds to whole units",
			pricing: DefaultPricing(),
			lines:   []domain.CartLine{Line(product(1, 19999), 1)},
			// 19999 * 0.19 = 3799.81
			want: Totals{Subtotal: 19999, Shipping: 15000, Tax: 3800, Total: 38799, ItemCount: 1},
		},
		{
			name:    "half unit rounds away from zero",
			pricing: Pricing{ShippingFlatRate: 0, TaxRate: decimal.RequireFromString("0.5")},
			lines:   []domain.CartLine{Line(product(1, 3), 1)},
			want:    Totals{Subtotal: 3, Tax: 2, Total: 5, ItemCount: 1},
		},
		{
			name:    "custom rates",
			pricing: Pricing{ShippingFlatRate: 10, TaxRate: decimal.RequireFromString("0.2")},
			lines:   []domain.CartLine{Line(product(1, 50), 2), Line(product(2, 25), 4)},
			want:    Totals{Subtotal: 200, Shipping: 10, Tax: 40, Total: 250, ItemCount: 6},
		},
		{
			name:    "empty",
			pricing: DefaultPricing(),
			coupon:  coupon10,
			want:    Totals{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count := 0
			for _, l := range tt.lines {
				count += l.Quantity
			}
			assert.Equal(t, tt.want, tt.pricing.Compute(tt.lines, tt.coupon, count))
		})
	}
}

func TestShippingIsNotTaxedOrDiscounted(t *testing.T) {
	p := Pricing{ShippingFlatRate: 15000, TaxRate: decimal.RequireFromString("0.19")}
	coupon := &domain.Coupon{ID: 1, Name: "Half", DiscountPercent: 50, Code: "half"}
	got := p.Compute([]domain.CartLine{Line(product(1, 100000), 1)}, coupon, 1)

	assert.Equal(t, int64(15000), got.Shipping)
	assert.Equal(t, int64(9500), got.Tax)
	assert.Equal(t, int64(50000+15000+9500), got.Total)
}
