package httpapi

import (
	"encoding/json"
	"net/http"

	"aeroparts/checkout"
	"aeroparts/domain"
)

// BuyNowRequest is the body of PUT /api/v1/checkout/buy-now.
type BuyNowRequest struct {
	ProductID int `json:"productId" validate:"gt=0"`
	Quantity  int `json:"quantity" validate:"gte=0"`
}

// PlaceOrderRequest is the body of POST /api/v1/checkout/orders. An empty
// body orders the cart.
type PlaceOrderRequest struct {
	Source string `json:"source" validate:"omitempty,oneof=cart buy-now"`
}

// saveShipping handles PUT /api/v1/checkout/shipping. The form is stored as
// given.
func (s *Server) saveShipping(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var info map[string]string
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		writeInvalid(w, r, "invalid request body: "+err.Error())
		return
	}
	if len(info) == 0 {
		writeInvalid(w, r, "shipping form must have at least one field")
		return
	}
	s.session(r).checkout.SaveShipping(r.Context(), info)
	writeData(w, http.StatusOK, info)
}

// getShipping handles GET /api/v1/checkout/shipping
func (s *Server) getShipping(w http.ResponseWriter, r *http.Request) {
	info, ok := s.session(r).checkout.Shipping(r.Context())
	if !ok {
		writeFailure(w, r, http.StatusNotFound, "NOT_FOUND", "no shipping information saved")
		return
	}
	writeData(w, http.StatusOK, info)
}

// setBuyNow handles PUT /api/v1/checkout/buy-now
func (s *Server) setBuyNow(w http.ResponseWriter, r *http.Request) {
	var req BuyNowRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if _, ok := s.catalog.Product(req.ProductID); !ok {
		writeError(w, r, domain.NewNotFoundError("product", req.ProductID), s.logger)
		return
	}
	if err := s.session(r).checkout.SetBuyNow(r.Context(), req.ProductID, req.Quantity); err != nil {
		writeError(w, r, err, s.logger)
		return
	}
	writeData(w, http.StatusOK, domain.CartItem{ProductID: req.ProductID, Quantity: req.Quantity})
}

// clearBuyNow handles DELETE /api/v1/checkout/buy-now
func (s *Server) clearBuyNow(w http.ResponseWriter, r *http.Request) {
	s.session(r).checkout.ClearBuyNow(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// quote handles GET /api/v1/checkout/quote?source=cart|buy-now
func (s *Server) quote(w http.ResponseWriter, r *http.Request) {
	source, err := sourceOrCart(r.URL.Query().Get("source"))
	if err != nil {
		writeError(w, r, err, s.logger)
		return
	}
	totals, err := s.session(r).checkout.Quote(r.Context(), source)
	if err != nil {
		writeError(w, r, err, s.logger)
		return
	}
	writeData(w, http.StatusOK, totals)
}

// placeOrder handles POST /api/v1/checkout/orders
func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if r.ContentLength != 0 {
		if !decodeAndValidate(w, r, &req) {
			return
		}
	}
	source, err := sourceOrCart(req.Source)
	if err != nil {
		writeError(w, r, err, s.logger)
		return
	}
	order, err := s.session(r).checkout.PlaceOrder(r.Context(), source)
	if err != nil {
		writeError(w, r, err, s.logger)
		return
	}
	writeData(w, http.StatusCreated, order)
}

// lastOrder handles GET /api/v1/checkout/orders/last
func (s *Server) lastOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := s.session(r).checkout.LastOrder(r.Context())
	if !ok {
		writeFailure(w, r, http.StatusNotFound, "NOT_FOUND", "no order has been placed")
		return
	}
	writeData(w, http.StatusOK, order)
}

func sourceOrCart(raw string) (checkout.Source, error) {
	if raw == "" {
		return checkout.SourceCart, nil
	}
	return checkout.ParseSource(raw)
}
