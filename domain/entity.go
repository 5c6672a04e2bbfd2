// Package domain defines the catalog entities, cart records and storage
// interfaces shared by the storefront engine.
package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Category groups products (e.g. "Drones RTF").
type Category struct {
	ID   int    `json:"id" validate:"gt=0"`
	Name string `json:"name" validate:"required"`
}

// NewCategory builds a validated Category.
func NewCategory(id int, name string) (Category, error) {
	c := Category{ID: id, Name: name}
	return c, Validate("category", c)
}

func (c Category) EntityID() int      { return c.ID }
func (c Category) EntityName() string { return c.Name }
func (c Category) String() string     { return c.Name }

// Brand is the manufacturer referenced by Product.BrandID.
type Brand struct {
	ID   int    `json:"id" validate:"gt=0"`
	Name string `json:"name" validate:"required"`
}

// NewBrand builds a validated Brand.
func NewBrand(id int, name string) (Brand, error) {
	b := Brand{ID: id, Name: name}
	return b, Validate("brand", b)
}

func (b Brand) EntityID() int      { return b.ID }
func (b Brand) EntityName() string { return b.Name }
func (b Brand) String() string     { return b.Name }

// Tag is a free-form label attached to products through ProductTagAssociation.
type Tag struct {
	ID   int    `json:"id" validate:"gt=0"`
	Name string `json:"name" validate:"required"`
}

// NewTag builds a validated Tag.
func NewTag(id int, name string) (Tag, error) {
	t := Tag{ID: id, Name: name}
	return t, Validate("tag", t)
}

func (t Tag) EntityID() int      { return t.ID }
func (t Tag) EntityName() string { return t.Name }
func (t Tag) String() string     { return t.Name }

// Specification defines a specification type such as "Peso" or "Voltaje".
type Specification struct {
	ID   int    `json:"id" validate:"gt=0"`
	Name string `json:"name" validate:"required"`
}

// NewSpecification builds a validated Specification.
func NewSpecification(id int, name string) (Specification, error) {
	s := Specification{ID: id, Name: name}
	return s, Validate("specification", s)
}

func (s Specification) EntityID() int      { return s.ID }
func (s Specification) EntityName() string { return s.Name }
func (s Specification) String() string     { return s.Name }

// Coupon is a percentage discount redeemable by code.
type Coupon struct {
	ID              int     `json:"id" validate:"gt=0"`
	Name            string  `json:"name" validate:"required"`
	DiscountPercent float64 `json:"disc_porcent" validate:"gte=0,lte=100"`
	Code            string  `json:"code" validate:"required"`
}

// NewCoupon builds a validated Coupon.
func NewCoupon(id int, name string, discountPercent float64, code string) (Coupon, error) {
	c := Coupon{ID: id, Name: name, DiscountPercent: discountPercent, Code: code}
	return c, Validate("coupon", c)
}

func (c Coupon) EntityID() int      { return c.ID }
func (c Coupon) EntityName() string { return c.Name }

// Matches reports whether code redeems this coupon. Comparison ignores case.
func (c Coupon) Matches(code string) bool {
	return strings.EqualFold(c.Code, code)
}

// DiscountAmount returns the discount for price, rounded to whole units.
func (c Coupon) DiscountAmount(price int64) int64 {
	return decimal.NewFromInt(price).
		Mul(decimal.NewFromFloat(c.DiscountPercent)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

// Apply returns price with the discount taken off.
func (c Coupon) Apply(price int64) int64 {
	return price - c.DiscountAmount(price)
}

// FormattedDiscount renders the percentage, e.g. "10%".
func (c Coupon) FormattedDiscount() string {
	return fmt.Sprintf("%g%%", c.DiscountPercent)
}

func (c Coupon) String() string {
	return fmt.Sprintf("%s (%s) - %s", c.Name, c.Code, c.FormattedDiscount())
}
