package domain

import "strings"

// Product is a catalog item as stored in the dataset. Relationships are
// referenced by id and resolved into a ProductDetail.
type Product struct {
	ID          int     `json:"id" validate:"gt=0"`
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Score       float64 `json:"score" validate:"gte=0,lte=5"`
	CategoryID  int     `json:"category_id"`
	BrandID     int     `json:"brand_id"`
	Price       int64   `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

// Validate checks the product's fields.
func (p Product) Validate() error {
	return Validate("product", p)
}

func (p Product) EntityID() int      { return p.ID }
func (p Product) EntityName() string { return p.Name }

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// ProductImage links an image URL to a product; lower Order sorts first.
type ProductImage struct {
	ProductID int    `json:"product_id" validate:"gt=0"`
	Image     string `json:"image" validate:"required"`
	Order     int    `json:"order"`
}

// Validate checks the image record.
func (i ProductImage) Validate() error {
	return Validate("product_image", i)
}

// URL returns the image location without the optional "url:" prefix.
func (i ProductImage) URL() string {
	return stripURLPrefix(i.Image)
}

// ProductSpecification holds one specification value for a product.
type ProductSpecification struct {
	ProductID       int    `json:"product_id" validate:"gt=0"`
	SpecificationID int    `json:"specification_id" validate:"gt=0"`
	Value           string `json:"value"`
}

// Validate checks the specification value record.
func (s ProductSpecification) Validate() error {
	return Validate("product_specification", s)
}

// ProductTagAssociation is one row of the product/tag join table.
type ProductTagAssociation struct {
	TagID     int `json:"tag_id" validate:"gt=0"`
	ProductID int `json:"product_id" validate:"gt=0"`
}

// Validate checks the association record.
func (a ProductTagAssociation) Validate() error {
	return Validate("product_tag_association", a)
}

func stripURLPrefix(s string) string {
	return strings.TrimPrefix(s, "url:")
}
