// Package catalog joins the raw dataset into enriched products and answers
// lookup, filter and aggregate queries over them.
package catalog

import (
	"fmt"
	"sort"

	"aeroparts/domain"
	"aeroparts/fixture"
)

// Catalog holds every entity of a dataset. Products are enriched once at
// construction; all accessors return deep copies, so mutating a returned
// product never reaches the catalog.
type Catalog struct {
	categories     *Repository[domain.Category]
	brands         *Repository[domain.Brand]
	tags           *Repository[domain.Tag]
	specifications *Repository[domain.Specification]
	coupons        *Repository[domain.Coupon]
	products       *Repository[domain.ProductDetail]

	images       []domain.ProductImage
	productSpecs []domain.ProductSpecification
	tagAssos     []domain.ProductTagAssociation
}

var _ domain.ProductLookup = (*Catalog)(nil)

// New validates ds and builds a Catalog from it.
func New(ds *fixture.Dataset) (*Catalog, error) {
	if ds == nil {
		return nil, fmt.Errorf("catalog: nil dataset")
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	c := &Catalog{
		categories:     NewRepository(ds.Categories),
		brands:         NewRepository(ds.Brands),
		tags:           NewRepository(ds.Tags),
		specifications: NewRepository(ds.Specifications),
		coupons:        NewRepository(ds.Coupons),
		images:         append([]domain.ProductImage(nil), ds.ProductImages...),
		productSpecs:   append([]domain.ProductSpecification(nil), ds.ProductSpecifications...),
		tagAssos:       append([]domain.ProductTagAssociation(nil), ds.ProductTagAssociations...),
	}

	details := make([]domain.ProductDetail, 0, len(ds.Products))
	for _, p := range ds.Products {
		details = append(details, c.EnrichProduct(p))
	}
	c.products = NewRepository(details)
	return c, nil
}

// MustNew is like New but panics on invalid data. It is meant for the
// embedded dataset, which is known to be valid.
func MustNew(ds *fixture.Dataset) *Catalog {
	c, err := New(ds)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return c
}

// Default builds a Catalog from the embedded dataset.
func Default() *Catalog {
	ds, err := fixture.Default()
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded dataset: %v", err))
	}
	return MustNew(ds)
}

// EnrichProduct resolves p's relationships into a new ProductDetail. Calling
// it again for the same product yields an equal value.
func (c *Catalog) EnrichProduct(p domain.Product) domain.ProductDetail {
	d := domain.ProductDetail{
		Product:        p,
		Images:         c.ProductImages(p.ID),
		Specifications: c.ProductSpecifications(p.ID),
		Tags:           c.ProductTags(p.ID),
	}
	if cat, ok := c.categories.ByID(p.CategoryID); ok {
		d.Category = &cat
	}
	if b, ok := c.brands.ByID(p.BrandID); ok {
		d.Brand = &b
	}
	return d
}

// ProductImages returns the product's images sorted by order. Images sharing
// an order keep their dataset order.
func (c *Catalog) ProductImages(productID int) []domain.ProductImage {
	out := make([]domain.ProductImage, 0)
	for _, img := range c.images {
		if img.ProductID == productID {
			out = append(out, img)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// ProductSpecifications returns the product's specification values with
// their names resolved.
func (c *Catalog) ProductSpecifications(productID int) []domain.SpecificationValue {
	out := make([]domain.SpecificationValue, 0)
	for _, ps := range c.productSpecs {
		if ps.ProductID != productID {
			continue
		}
		sv := domain.SpecificationValue{SpecificationID: ps.SpecificationID, Value: ps.Value}
		if spec, ok := c.specifications.ByID(ps.SpecificationID); ok {
			sv.Name = spec.Name
		}
		out = append(out, sv)
	}
	return out
}

// ProductTags returns the product's tags. Unknown tag ids are skipped and
// repeated associations collapse to one tag.
func (c *Catalog) ProductTags(productID int) []domain.Tag {
	out := make([]domain.Tag, 0)
	seen := make(map[int]bool)
	for _, a := range c.tagAssos {
		if a.ProductID != productID || seen[a.TagID] {
			continue
		}
		tag, ok := c.tags.ByID(a.TagID)
		if !ok {
			continue
		}
		seen[a.TagID] = true
		out = append(out, tag)
	}
	return out
}

// Product returns the enriched product with the given id.
func (c *Catalog) Product(id int) (domain.ProductDetail, bool) {
	return c.products.ByID(id)
}

// Products returns every enriched product in dataset order.
func (c *Catalog) Products() []domain.ProductDetail {
	return c.products.All()
}

func (c *Catalog) Categories() *Repository[domain.Category]         { return c.categories }
func (c *Catalog) Brands() *Repository[domain.Brand]                 { return c.brands }
func (c *Catalog) Tags() *Repository[domain.Tag]                     { return c.tags }
func (c *Catalog) Specifications() *Repository[domain.Specification] { return c.specifications }
func (c *Catalog) Coupons() *Repository[domain.Coupon]               { return c.coupons }

// TagByName finds a tag by exact name, ignoring case.
func (c *Catalog) TagByName(name string) (domain.Tag, bool) {
	return c.tags.ByName(name)
}

// SpecificationByName finds a specification by exact name, ignoring case.
func (c *Catalog) SpecificationByName(name string) (domain.Specification, bool) {
	return c.specifications.ByName(name)
}

// CouponByCode finds the coupon redeemed by code, ignoring case.
func (c *Catalog) CouponByCode(code string) (domain.Coupon, bool) {
	return c.coupons.Find(func(cp domain.Coupon) bool { return cp.Matches(code) })
}

// CouponValidation is the outcome of ValidateCoupon.
type CouponValidation struct {
	Valid  bool           `json:"valid"`
	Coupon *domain.Coupon `json:"coupon"`
}

// ValidateCoupon reports whether code redeems a coupon and which one.
func (c *Catalog) ValidateCoupon(code string) CouponValidation {
	cp, ok := c.CouponByCode(code)
	if !ok {
		return CouponValidation{}
	}
	return CouponValidation{Valid: true, Coupon: &cp}
}

// CouponsByMinDiscount returns coupons discounting at least minPercent.
func (c *Catalog) CouponsByMinDiscount(minPercent float64) []domain.Coupon {
	return c.coupons.Filter(func(cp domain.Coupon) bool { return cp.DiscountPercent >= minPercent })
}
