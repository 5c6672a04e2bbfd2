package catalog

import (
	"testing"

	"aeroparts/domain"

	"github.com/stretchr/testify/assert"
)

func TestFilterProducts(t *testing.T) {
	c := Default()

	tests := []struct {
		name     string
		criteria Criteria
		want     []int
	}{
		{"search motor", Criteria{Search: "MOTOR"}, []int{1, 2}},
		{"category, stock and search", Criteria{CategoryID: 4, InStock: true, Search: "motor"}, []int{1, 2}},
		{"category 1", Criteria{CategoryID: 1}, []int{13, 14}},
		{"tag racing", Criteria{TagName: "racing"}, []int{2}},
		{"brand and tag", Criteria{BrandID: 4, TagName: "Avanzado"}, []int{9, 13}},
		{"price bounds inclusive", Criteria{MinPrice: Ptr(int64(139900)), MaxPrice: Ptr(int64(149900))}, []int{1, 2}},
		{"min score", Criteria{MinScore: Ptr(4.9)}, []int{1, 9, 13}},
		{"zero max price", Criteria{MaxPrice: Ptr(int64(0))}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(c.FilterProducts(tt.criteria)))
		})
	}
}

func TestFilterProductsRemovingCriterionWidens(t *testing.T) {
	c := MustNew(smallDataset())
	full := Criteria{CategoryID: 1, InStock: true, Search: "motor"}
	narrow := ids(c.FilterProducts(full))
	assert.Equal(t, []int{1}, narrow)

	variants := []Criteria{
		{InStock: true, Search: "motor"},
		{CategoryID: 1, Search: "motor"},
		{CategoryID: 1, InStock: true},
	}
	for _, v := range variants {
		wide := ids(c.FilterProducts(v))
		for _, id := range narrow {
			assert.Contains(t, wide, id)
		}
		assert.GreaterOrEqual(t, len(wide), len(narrow))
	}
	assert.Equal(t, []int{1, 2}, ids(c.FilterProducts(Criteria{CategoryID: 1, Search: "motor"})))
}

func TestSearchProductsMatchesDescription(t *testing.T) {
	c := MustNew(smallDataset())
	assert.Equal(t, []int{1, 2}, ids(c.SearchProducts("Motor")))
	assert.Equal(t, c.FilterProducts(Criteria{Search: "ready"}), c.SearchProducts("ready"))
}

func TestConvenienceQueries(t *testing.T) {
	c := MustNew(smallDataset())

	assert.Equal(t, []int{1, 2}, ids(c.ProductsByCategory(1)))
	assert.Equal(t, []int{1, 3}, ids(c.ProductsByBrand(1)))
	assert.Equal(t, []int{1, 2}, ids(c.ProductsByTag("FREESTYLE")))
	assert.Equal(t, []int{1, 3}, ids(c.InStockProducts()))
	assert.Equal(t, []int{1, 2}, ids(c.ProductsByPriceRange(100000, 180000)))
}

func TestTopRatedAndFeatured(t *testing.T) {
	c := Default()

	assert.Equal(t, []int{1, 9, 13}, ids(c.TopRated(3)))
	assert.Len(t, c.TopRated(0), DefaultLimit)
	assert.Len(t, c.TopRated(100), 20)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 7, 8, 9, 10, 11}, ids(c.Featured(10)))
	for _, p := range c.Featured(50) {
		assert.True(t, p.InStock())
		assert.GreaterOrEqual(t, p.Score, FeaturedMinScore)
	}
	assert.Len(t, c.Featured(50), 17)

	small := MustNew(smallDataset())
	assert.Equal(t, []int{1, 3}, ids(small.Featured(5)))
}

func TestAggregates(t *testing.T) {
	c := Default()
	assert.Equal(t, int64(371450), c.AveragePrice())
	assert.Equal(t, 4.6, c.AverageScore())

	small := MustNew(smallDataset())
	// (100000 + 180000 + 900000) / 3 = 393333.33
	assert.Equal(t, int64(393333), small.AveragePrice())
	// (4.8 + 4.2 + 4.9) / 3 = 4.633
	assert.Equal(t, 4.6, small.AverageScore())

	empty := MustNew(&fixtureEmpty)
	assert.Equal(t, int64(0), empty.AveragePrice())
	assert.Equal(t, 0.0, empty.AverageScore())
}

func TestStats(t *testing.T) {
	s := Default().Stats()
	assert.Equal(t, Stats{
		Categories:         4,
		Brands:             5,
		Tags:               20,
		Specifications:     10,
		Products:           20,
		Coupons:            1,
		ProductsInStock:    20,
		ProductsOutOfStock: 0,
		AveragePrice:       371450,
		AverageScore:       4.6,
	}, s)

	small := MustNew(smallDataset()).Stats()
	assert.Equal(t, 2, small.ProductsInStock)
	assert.Equal(t, 1, small.ProductsOutOfStock)
}

func TestCriteriaMatchZeroValue(t *testing.T) {
	assert.True(t, Criteria{}.Match(domain.ProductDetail{Product: domain.Product{ID: 1, Name: "x"}}))
}
