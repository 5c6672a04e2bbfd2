package cart

import (
	"github.com/shopspring/decimal"

	"aeroparts/domain"
)

const (
	// DefaultShippingFlatRate is charged on every non-empty order.
	DefaultShippingFlatRate int64 = 15000
	// DefaultTaxRate is the VAT applied to the discounted subtotal.
	DefaultTaxRate = "0.19"
)

// Pricing holds the order charges applied on top of product prices.
type Pricing struct {
	ShippingFlatRate int64
	TaxRate          decimal.Decimal
}

// DefaultPricing returns the storefront's shipping and tax settings.
func DefaultPricing() Pricing {
	return Pricing{
		ShippingFlatRate: DefaultShippingFlatRate,
		TaxRate:          decimal.RequireFromString(DefaultTaxRate),
	}
}

// Totals is the price breakdown of a cart or order. Amounts are whole
// currency units.
type Totals struct {
	Subtotal  int64 `json:"subtotal"`
	Discount  int64 `json:"discount"`
	Shipping  int64 `json:"shipping"`
	Tax       int64 `json:"tax"`
	Total     int64 `json:"total"`
	ItemCount int   `json:"itemCount"`
}

// SubtotalAfterDiscount is the taxable amount.
func (t Totals) SubtotalAfterDiscount() int64 {
	return t.Subtotal - t.Discount
}

// Compute prices lines. The discount comes off the subtotal before tax,
// shipping is neither discounted nor taxed, and shipping is waived for an
// empty subtotal. itemCount is reported as given.
func (p Pricing) Compute(lines []domain.CartLine, coupon *domain.Coupon, itemCount int) Totals {
	var subtotal int64
	for _, l := range lines {
		subtotal += l.Subtotal
	}

	var discount int64
	if coupon != nil {
		discount = coupon.DiscountAmount(subtotal)
	}
	afterDiscount := subtotal - discount

	var shipping int64
	if subtotal > 0 {
		shipping = p.ShippingFlatRate
	}

	tax := decimal.NewFromInt(afterDiscount).Mul(p.TaxRate).Round(0).IntPart()

	return Totals{
		Subtotal:  subtotal,
		Discount:  discount,
		Shipping:  shipping,
		Tax:       tax,
		Total:     afterDiscount + shipping + tax,
		ItemCount: itemCount,
	}
}

// Line resolves one entry against product.
func Line(product domain.ProductDetail, quantity int) domain.CartLine {
	return domain.CartLine{
		Product:  product,
		Quantity: quantity,
		Subtotal: product.Price * int64(quantity),
	}
}

// ResolveLines joins items with the catalog. Items whose product is unknown
// are dropped.
func ResolveLines(items []domain.CartItem, lookup domain.ProductLookup) []domain.CartLine {
	lines := make([]domain.CartLine, 0, len(items))
	for _, it := range items {
		p, ok := lookup.Product(it.ProductID)
		if !ok {
			continue
		}
		lines = append(lines, Line(p, it.Quantity))
	}
	return lines
}

// CountItems sums quantities.
func CountItems(items []domain.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
