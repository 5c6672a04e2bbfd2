package catalog

import (
	"sort"
	"strings"

	"aeroparts/domain"

	"github.com/shopspring/decimal"
)

const (
	// DefaultLimit is used by TopRated and Featured when no limit is given.
	DefaultLimit = 10
	// FeaturedMinScore is the lowest score a featured product may have.
	FeaturedMinScore = 4.5
)

// Criteria narrows a product listing. Zero-valued fields impose no
// constraint; all set fields must match.
type Criteria struct {
	CategoryID int
	BrandID    int
	TagName    string
	MinPrice   *int64
	MaxPrice   *int64
	MinScore   *float64
	InStock    bool
	Search     string
}

// Ptr returns a pointer to v, for the optional Criteria bounds.
func Ptr[T any](v T) *T {
	return &v
}

// Match reports whether p satisfies every set criterion.
func (c Criteria) Match(p domain.ProductDetail) bool {
	if c.CategoryID != 0 && p.CategoryID != c.CategoryID {
		return false
	}
	if c.BrandID != 0 && p.BrandID != c.BrandID {
		return false
	}
	if c.TagName != "" && !p.HasTag(c.TagName) {
		return false
	}
	if c.MinPrice != nil && p.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && p.Price > *c.MaxPrice {
		return false
	}
	if c.MinScore != nil && p.Score < *c.MinScore {
		return false
	}
	if c.InStock && !p.InStock() {
		return false
	}
	if c.Search != "" && !matchesText(p, c.Search) {
		return false
	}
	return true
}

func matchesText(p domain.ProductDetail, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}

// FilterProducts returns products matching criteria in dataset order.
func (c *Catalog) FilterProducts(criteria Criteria) []domain.ProductDetail {
	return c.products.Filter(criteria.Match)
}

// SearchProducts matches query against product name or description.
func (c *Catalog) SearchProducts(query string) []domain.ProductDetail {
	return c.FilterProducts(Criteria{Search: query})
}

func (c *Catalog) ProductsByCategory(categoryID int) []domain.ProductDetail {
	return c.products.Filter(func(p domain.ProductDetail) bool { return p.CategoryID == categoryID })
}

func (c *Catalog) ProductsByBrand(brandID int) []domain.ProductDetail {
	return c.products.Filter(func(p domain.ProductDetail) bool { return p.BrandID == brandID })
}

func (c *Catalog) ProductsByTag(tagName string) []domain.ProductDetail {
	return c.products.Filter(func(p domain.ProductDetail) bool { return p.HasTag(tagName) })
}

func (c *Catalog) InStockProducts() []domain.ProductDetail {
	return c.products.Filter(func(p domain.ProductDetail) bool { return p.InStock() })
}

// ProductsByPriceRange returns products priced within [min, max].
func (c *Catalog) ProductsByPriceRange(min, max int64) []domain.ProductDetail {
	return c.products.Filter(func(p domain.ProductDetail) bool { return p.Price >= min && p.Price <= max })
}

// TopRated returns up to limit products by descending score. Ties keep
// dataset order.
func (c *Catalog) TopRated(limit int) []domain.ProductDetail {
	products := c.products.All()
	sort.SliceStable(products, func(i, j int) bool { return products[i].Score > products[j].Score })
	return head(products, limit)
}

// Featured returns up to limit in-stock products scoring at least 4.5, in
// dataset order.
func (c *Catalog) Featured(limit int) []domain.ProductDetail {
	products := c.products.Filter(func(p domain.ProductDetail) bool {
		return p.InStock() && p.Score >= FeaturedMinScore
	})
	return head(products, limit)
}

func head(products []domain.ProductDetail, limit int) []domain.ProductDetail {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(products) > limit {
		return products[:limit]
	}
	return products
}

// AveragePrice returns the mean product price rounded to whole units, or 0
// for an empty catalog.
func (c *Catalog) AveragePrice() int64 {
	n := c.products.Count()
	if n == 0 {
		return 0
	}
	total := decimal.Zero
	for _, p := range c.products.items {
		total = total.Add(decimal.NewFromInt(p.Price))
	}
	return total.Div(decimal.NewFromInt(int64(n))).Round(0).IntPart()
}

// AverageScore returns the mean score rounded to one decimal, or 0 for an
// empty catalog.
func (c *Catalog) AverageScore() float64 {
	n := c.products.Count()
	if n == 0 {
		return 0
	}
	total := decimal.Zero
	for _, p := range c.products.items {
		total = total.Add(decimal.NewFromFloat(p.Score))
	}
	avg, _ := total.Div(decimal.NewFromInt(int64(n))).Round(1).Float64()
	return avg
}

// Stats summarises the catalog.
type Stats struct {
	Categories         int     `json:"categories"`
	Brands             int     `json:"brands"`
	Tags               int     `json:"tags"`
	Specifications     int     `json:"specifications"`
	Products           int     `json:"products"`
	Coupons            int     `json:"coupons"`
	ProductsInStock    int     `json:"products_in_stock"`
	ProductsOutOfStock int     `json:"products_out_of_stock"`
	AveragePrice       int64   `json:"average_price"`
	AverageScore       float64 `json:"average_score"`
}

// Stats computes entity counts and product aggregates.
func (c *Catalog) Stats() Stats {
	inStock := len(c.InStockProducts())
	return Stats{
		Categories:         c.categories.Count(),
		Brands:             c.brands.Count(),
		Tags:               c.tags.Count(),
		Specifications:     c.specifications.Count(),
		Products:           c.products.Count(),
		Coupons:            c.coupons.Count(),
		ProductsInStock:    inStock,
		ProductsOutOfStock: c.products.Count() - inStock,
		AveragePrice:       c.AveragePrice(),
		AverageScore:       c.AverageScore(),
	}
}
