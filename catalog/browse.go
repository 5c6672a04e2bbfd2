package catalog

import (
	"fmt"
	"sort"

	"aeroparts/domain"
)

// SortMode orders a product listing.
type SortMode string

const (
	// SortRelevance puts in-stock products first, then higher scores.
	SortRelevance SortMode = "relevance"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
	SortRating    SortMode = "rating"
)

// DefaultPerPage is the listing page size.
const DefaultPerPage = 12

// ParseSortMode validates s. The empty string selects relevance.
func ParseSortMode(s string) (SortMode, error) {
	switch m := SortMode(s); m {
	case "":
		return SortRelevance, nil
	case SortRelevance, SortPriceAsc, SortPriceDesc, SortRating:
		return m, nil
	default:
		return "", fmt.Errorf("unknown sort mode %q (want relevance, price-asc, price-desc or rating)", s)
	}
}

// SortProducts returns a sorted copy of products. Equal keys keep their
// input order; unknown modes sort by relevance.
func SortProducts(products []domain.ProductDetail, mode SortMode) []domain.ProductDetail {
	out := make([]domain.ProductDetail, len(products))
	copy(out, products)

	var less func(a, b domain.ProductDetail) bool
	switch mode {
	case SortPriceAsc:
		less = func(a, b domain.ProductDetail) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b domain.ProductDetail) bool { return a.Price > b.Price }
	case SortRating:
		less = func(a, b domain.ProductDetail) bool { return a.Score > b.Score }
	default:
		less = func(a, b domain.ProductDetail) bool {
			if a.InStock() != b.InStock() {
				return a.InStock()
			}
			return a.Score > b.Score
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// BrowseQuery is a storefront listing request: criteria, any-of brand
// selection, ordering and paging.
type BrowseQuery struct {
	Criteria
	BrandIDs []int
	Sort     SortMode
	Page     int
	PerPage  int
}

// Page is one page of a listing.
type Page struct {
	Items      []domain.ProductDetail `json:"items"`
	TotalCount int                    `json:"total_count"`
	Page       int                    `json:"page"`
	PerPage    int                    `json:"per_page"`
	TotalPages int                    `json:"total_pages"`
	HasNext    bool                   `json:"has_next"`
	HasPrev    bool                   `json:"has_prev"`
}

// Browse filters, sorts and paginates products. A page past the end is
// clamped to the last page.
func (c *Catalog) Browse(q BrowseQuery) Page {
	products := c.FilterProducts(q.Criteria)
	if len(q.BrandIDs) > 0 {
		brands := make(map[int]bool, len(q.BrandIDs))
		for _, id := range q.BrandIDs {
			brands[id] = true
		}
		filtered := products[:0]
		for _, p := range products {
			if brands[p.BrandID] {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}
	products = SortProducts(products, q.Sort)

	perPage := q.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	total := len(products)
	totalPages := (total + perPage - 1) / perPage

	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = max(1, totalPages)
	}

	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)

	return Page{
		Items:      products[start:end],
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
