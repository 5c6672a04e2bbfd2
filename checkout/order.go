package checkout

import (
	"fmt"
	"time"

	"aeroparts/cart"
	"aeroparts/domain"
)

// Source is where an order's items come from.
type Source string

const (
	SourceCart   Source = "cart"
	SourceBuyNow Source = "buy-now"
)

// ParseSource validates s.
func ParseSource(s string) (Source, error) {
	switch src := Source(s); src {
	case SourceCart, SourceBuyNow:
		return src, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
	}
}

// ProductSnapshot is the part of a product an order keeps.
type ProductSnapshot struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Price          int64  `json:"price"`
	FormattedPrice string `json:"formatted_price"`
	Image          string `json:"image"`
	CategoryName   string `json:"category_name,omitempty"`
	BrandName      string `json:"brand_name,omitempty"`
}

func snapshot(p domain.ProductDetail) ProductSnapshot {
	return ProductSnapshot{
		ID:             p.ID,
		Name:           p.Name,
		Price:          p.Price,
		FormattedPrice: p.FormattedPrice(),
		Image:          p.MainImage(),
		CategoryName:   p.CategoryName(),
		BrandName:      p.BrandName(),
	}
}

// OrderItem is one purchased line.
type OrderItem struct {
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal int64           `json:"subtotal"`
}

// OrderTotals is the charged breakdown. Discount is present only when a
// coupon was applied.
type OrderTotals struct {
	Subtotal int64  `json:"subtotal"`
	Discount *int64 `json:"discount,omitempty"`
	Shipping int64  `json:"shipping"`
	Tax      int64  `json:"tax"`
	Total    int64  `json:"total"`
}

func orderTotals(t cart.Totals, withCoupon bool) OrderTotals {
	ot := OrderTotals{
		Subtotal: t.Subtotal,
		Shipping: t.Shipping,
		Tax:      t.Tax,
		Total:    t.Total,
	}
	if withCoupon {
		d := t.Discount
		ot.Discount = &d
	}
	return ot
}

// Order is a completed purchase.
type Order struct {
	ID       string            `json:"id"`
	Date     time.Time         `json:"date"`
	Source   Source            `json:"source"`
	Items    []OrderItem       `json:"items"`
	Totals   OrderTotals       `json:"totals"`
	Coupon   *domain.Coupon    `json:"coupon,omitempty"`
	Shipping map[string]string `json:"shipping"`
	Payment  Receipt           `json:"payment"`
}

// ItemCount sums the ordered quantities.
func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}
