// Package fixture provides the storefront dataset: the embedded drone and
// RC-parts catalog, or an equivalent JSON file supplied at runtime.
package fixture

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"aeroparts/domain"
)

//go:embed dataset.json
var embedded []byte

// Dataset is the raw collection of catalog records before enrichment.
type Dataset struct {
	Categories             []domain.Category              `json:"categories"`
	Brands                 []domain.Brand                 `json:"brands"`
	Tags                   []domain.Tag                   `json:"tags"`
	Specifications         []domain.Specification         `json:"specifications"`
	Products               []domain.Product               `json:"products"`
	ProductImages          []domain.ProductImage          `json:"product_images"`
	ProductSpecifications  []domain.ProductSpecification  `json:"product_specifications"`
	ProductTagAssociations []domain.ProductTagAssociation `json:"product_tag_assos"`
	Coupons                []domain.Coupon                `json:"coupons"`
}

// Default returns the embedded dataset.
func Default() (*Dataset, error) {
	return Parse(embedded)
}

// Load reads and validates a dataset file.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	ds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return ds, nil
}

// Parse decodes and validates a JSON dataset.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			return nil, domain.NewInvalidEntityError("dataset", te.Field, "expected "+te.Type.String(), te.Value)
		}
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Validate checks every record and returns the first violation.
func (d *Dataset) Validate() error {
	for _, c := range d.Categories {
		if err := domain.Validate("category", c); err != nil {
			return err
		}
	}
	for _, b := range d.Brands {
		if err := domain.Validate("brand", b); err != nil {
			return err
		}
	}
	for _, t := range d.Tags {
		if err := domain.Validate("tag", t); err != nil {
			return err
		}
	}
	for _, s := range d.Specifications {
		if err := domain.Validate("specification", s); err != nil {
			return err
		}
	}
	for _, c := range d.Coupons {
		if err := domain.Validate("coupon", c); err != nil {
			return err
		}
	}
	for _, p := range d.Products {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	for _, img := range d.ProductImages {
		if err := img.Validate(); err != nil {
			return err
		}
	}
	for _, ps := range d.ProductSpecifications {
		if err := ps.Validate(); err != nil {
			return err
		}
	}
	for _, a := range d.ProductTagAssociations {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}
