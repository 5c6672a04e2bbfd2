package domain

import (
	"encoding/json"
	"math"
	"slices"
	"strings"

	"aeroparts/money"
)

// SpecificationValue is a product's value for one specification, carrying the
// resolved specification name. Name is empty when the specification is unknown.
type SpecificationValue struct {
	SpecificationID int    `json:"specification_id"`
	Name            string `json:"name"`
	Value           string `json:"value"`
}

// ProductDetail is a product joined with its related records. It is built
// once by the catalog and never modified afterwards.
type ProductDetail struct {
	Product
	Category       *Category
	Brand          *Brand
	Images         []ProductImage
	Specifications []SpecificationValue
	Tags           []Tag
}

// Clone returns a copy of d that shares no slices or pointers with it.
func (d ProductDetail) Clone() ProductDetail {
	out := d
	if d.Category != nil {
		c := *d.Category
		out.Category = &c
	}
	if d.Brand != nil {
		b := *d.Brand
		out.Brand = &b
	}
	out.Images = slices.Clone(d.Images)
	out.Specifications = slices.Clone(d.Specifications)
	out.Tags = slices.Clone(d.Tags)
	return out
}

// MainImage returns the first image by order, falling back to the product's
// own image.
func (d ProductDetail) MainImage() string {
	if len(d.Images) > 0 {
		return d.Images[0].URL()
	}
	return stripURLPrefix(d.Image)
}

// AllImages returns every image URL in display order, or the product's own
// image when it has none.
func (d ProductDetail) AllImages() []string {
	if len(d.Images) == 0 {
		return []string{stripURLPrefix(d.Image)}
	}
	urls := make([]string, 0, len(d.Images))
	for _, img := range d.Images {
		urls = append(urls, img.URL())
	}
	return urls
}

// HasTag reports whether the product carries a tag named name, ignoring case.
func (d ProductDetail) HasTag(name string) bool {
	for _, t := range d.Tags {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

// CategoryName returns the resolved category name or "".
func (d ProductDetail) CategoryName() string {
	if d.Category == nil {
		return ""
	}
	return d.Category.Name
}

// BrandName returns the resolved brand name or "".
func (d ProductDetail) BrandName() string {
	if d.Brand == nil {
		return ""
	}
	return d.Brand.Name
}

// SpecificationValue looks up a specification value by name, ignoring case.
func (d ProductDetail) SpecificationValue(name string) (string, bool) {
	for _, s := range d.Specifications {
		if s.Name != "" && strings.EqualFold(s.Name, name) {
			return s.Value, true
		}
	}
	return "", false
}

// SpecificationsMap returns resolved specification names mapped to values.
func (d ProductDetail) SpecificationsMap() map[string]string {
	m := make(map[string]string, len(d.Specifications))
	for _, s := range d.Specifications {
		if s.Name != "" {
			m[s.Name] = s.Value
		}
	}
	return m
}

// FormattedPrice renders the price in pesos.
func (d ProductDetail) FormattedPrice() string {
	return money.FormatCOP(d.Price)
}

// StarRating renders the score as five stars, half stars rounding up.
func (d ProductDetail) StarRating() string {
	full := int(math.Floor(d.Score))
	half := d.Score-float64(full) >= 0.5
	var b strings.Builder
	for i := 0; i < 5; i++ {
		switch {
		case i < full:
			b.WriteString("★")
		case i == full && half:
			b.WriteString("⯪")
		default:
			b.WriteString("☆")
		}
	}
	return b.String()
}

type productDetailJSON struct {
	Product
	FormattedPrice string            `json:"formatted_price"`
	CategoryName   *string           `json:"category_name"`
	BrandName      *string           `json:"brand_name"`
	InStock        bool              `json:"in_stock"`
	MainImage      string            `json:"main_image"`
	AllImages      []string          `json:"all_images"`
	Tags           []Tag             `json:"tags"`
	Specifications map[string]string `json:"specifications"`
}

// MarshalJSON renders the storefront view of the product.
func (d ProductDetail) MarshalJSON() ([]byte, error) {
	v := productDetailJSON{
		Product:        d.Product,
		FormattedPrice: d.FormattedPrice(),
		InStock:        d.InStock(),
		MainImage:      d.MainImage(),
		AllImages:      d.AllImages(),
		Tags:           d.Tags,
		Specifications: d.SpecificationsMap(),
	}
	if v.Tags == nil {
		v.Tags = []Tag{}
	}
	if d.Category != nil {
		v.CategoryName = &d.Category.Name
	}
	if d.Brand != nil {
		v.BrandName = &d.Brand.Name
	}
	return json.Marshal(v)
}
