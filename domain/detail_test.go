package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDetail() ProductDetail {
	return ProductDetail{
		Product:  Product{ID: 7, Name: "Frame 5in", Image: "url:frame.jpg", Price: 120000, Stock: 2, Score: 3.5},
		Category: &Category{ID: 2, Name: "Frames"},
		Images: []ProductImage{
			{ProductID: 7, Image: "url:front.jpg", Order: 1},
			{ProductID: 7, Image: "side.jpg", Order: 2},
		},
		Specifications: []SpecificationValue{
			{SpecificationID: 1, Name: "Peso", Value: "110g"},
			{SpecificationID: 99, Value: "orphan"},
		},
		Tags: []Tag{{ID: 1, Name: "FPV"}},
	}
}

func TestProductDetailAccessors(t *testing.T) {
	d := sampleDetail()

	assert.Equal(t, "front.jpg", d.MainImage())
	assert.Equal(t, []string{"front.jpg", "side.jpg"}, d.AllImages())
	assert.True(t, d.InStock())
	assert.True(t, d.HasTag("fpv"))
	assert.False(t, d.HasTag("fp"))
	assert.Equal(t, "Frames", d.CategoryName())
	assert.Equal(t, "", d.BrandName())

	v, ok := d.SpecificationValue("peso")
	assert.True(t, ok)
	assert.Equal(t, "110g", v)
	_, ok = d.SpecificationValue("Voltaje")
	assert.False(t, ok)

	assert.Equal(t, map[string]string{"Peso": "110g"}, d.SpecificationsMap())
	assert.Equal(t, "★★★⯪☆", d.StarRating())
}

func TestProductDetailClone(t *testing.T) {
	d := sampleDetail()
	d.Brand = &Brand{ID: 3, Name: "SkyRacer Tech"}
	c := d.Clone()
	require.Equal(t, d, c)

	c.Category.Name = "x"
	c.Brand.Name = "x"
	c.Images[0].Image = "x"
	c.Specifications[0].Value = "x"
	c.Tags[0].Name = "x"
	assert.Equal(t, sampleDetail().Category, d.Category)
	assert.Equal(t, "SkyRacer Tech", d.BrandName())
	assert.Equal(t, sampleDetail().Images, d.Images)
	assert.Equal(t, sampleDetail().Specifications, d.Specifications)
	assert.Equal(t, sampleDetail().Tags, d.Tags)

	bare := ProductDetail{Product: Product{ID: 1, Name: "Prop"}}
	assert.Equal(t, bare, bare.Clone())
}

func TestProductDetailMainImageFallback(t *testing.T) {
	d := ProductDetail{Product: Product{ID: 1, Name: "Prop", Image: "url:prop.jpg"}}
	assert.Equal(t, "prop.jpg", d.MainImage())
	assert.Equal(t, []string{"prop.jpg"}, d.AllImages())
	assert.False(t, d.InStock())
}

func TestProductDetailJSON(t *testing.T) {
	raw, err := json.Marshal(sampleDetail())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, float64(7), got["id"])
	assert.Equal(t, "Frames", got["category_name"])
	assert.Nil(t, got["brand_name"])
	assert.Equal(t, true, got["in_stock"])
	assert.Equal(t, "front.jpg", got["main_image"])
	assert.Contains(t, got["formatted_price"], "120")
	assert.Equal(t, map[string]any{"Peso": "110g"}, got["specifications"])
}
