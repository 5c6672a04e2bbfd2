package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"aeroparts/catalog"
	"aeroparts/domain"
)

// parseBrowseQuery reads listing filters from the query string.
func parseBrowseQuery(q url.Values) (catalog.BrowseQuery, error) {
	var bq catalog.BrowseQuery
	var err error

	if bq.CategoryID, err = intParam(q, "category_id"); err != nil {
		return bq, err
	}
	for _, raw := range q["brand_id"] {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return bq, fmt.Errorf("brand_id must be an integer, got %q", raw)
		}
		bq.BrandIDs = append(bq.BrandIDs, id)
	}
	bq.TagName = q.Get("tag")
	bq.Search = q.Get("search")

	if raw := q.Get("min_price"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return bq, fmt.Errorf("min_price must be an integer, got %q", raw)
		}
		bq.MinPrice = &v
	}
	if raw := q.Get("max_price"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return bq, fmt.Errorf("max_price must be an integer, got %q", raw)
		}
		bq.MaxPrice = &v
	}
	if raw := q.Get("min_score"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return bq, fmt.Errorf("min_score must be a number, got %q", raw)
		}
		bq.MinScore = &v
	}
	if raw := q.Get("in_stock"); raw != "" {
		if bq.InStock, err = strconv.ParseBool(raw); err != nil {
			return bq, fmt.Errorf("in_stock must be a boolean, got %q", raw)
		}
	}
	if bq.Sort, err = catalog.ParseSortMode(q.Get("sort")); err != nil {
		return bq, err
	}
	if bq.Page, err = intParam(q, "page"); err != nil {
		return bq, err
	}
	if bq.PerPage, err = intParam(q, "per_page"); err != nil {
		return bq, err
	}
	return bq, nil
}

// intParam returns 0 for an absent parameter.
func intParam(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return v, nil
}

func pathID(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}

// listProducts handles GET /api/v1/products
func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	bq, err := parseBrowseQuery(r.URL.Query())
	if err != nil {
		writeInvalid(w, r, err.Error())
		return
	}
	writeData(w, http.StatusOK, s.catalog.Browse(bq))
}

// getProduct handles GET /api/v1/products/{id}
func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeInvalid(w, r, err.Error())
		return
	}
	p, ok := s.catalog.Product(id)
	if !ok {
		writeError(w, r, domain.NewNotFoundError("product", id), s.logger)
		return
	}
	writeData(w, http.StatusOK, p)
}

// topProducts handles GET /api/v1/products/top?limit=n
func (s *Server) topProducts(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query(), "limit")
	if err != nil {
		writeInvalid(w, r, err.Error())
		return
	}
	writeData(w, http.StatusOK, s.catalog.TopRated(limit))
}

// featuredProducts handles GET /api/v1/products/featured?limit=n
func (s *Server) featuredProducts(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query(), "limit")
	if err != nil {
		writeInvalid(w, r, err.Error())
		return
	}
	writeData(w, http.StatusOK, s.catalog.Featured(limit))
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.catalog.Categories().All())
}

func (s *Server) listBrands(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.catalog.Brands().All())
}

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.catalog.Tags().All())
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.catalog.Stats())
}

// getCoupon handles GET /api/v1/coupons/{code}
func (s *Server) getCoupon(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	v := s.catalog.ValidateCoupon(code)
	if !v.Valid {
		writeFailure(w, r, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("coupon not found: code=%s", code))
		return
	}
	writeData(w, http.StatusOK, v)
}
