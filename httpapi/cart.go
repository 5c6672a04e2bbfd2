package httpapi

import (
	"fmt"
	"net/http"

	"aeroparts/cart"
	"aeroparts/domain"
)

// AddItemRequest is the body of POST /api/v1/cart/items.
type AddItemRequest struct {
	ProductID int `json:"productId" validate:"gt=0"`
	Quantity  int `json:"quantity" validate:"gte=0"`
}

// UpdateItemRequest is the body of PUT /api/v1/cart/items/{productId}. A
// quantity of zero removes the item.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// ApplyCouponRequest is the body of PUT /api/v1/cart/coupon.
type ApplyCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

// CartView is the cart as the storefront renders it.
type CartView struct {
	Session string            `json:"session"`
	Lines   []domain.CartLine `json:"lines"`
	Coupon  *domain.Coupon    `json:"coupon"`
	Totals  cart.Totals       `json:"totals"`
}

func (s *Server) cartView(r *http.Request) CartView {
	mgr := s.session(r).cart
	ctx := r.Context()
	v := CartView{
		Session: mgr.Session(),
		Lines:   mgr.Lines(ctx, s.catalog),
		Totals:  mgr.Totals(ctx, s.catalog),
	}
	if c, ok := mgr.AppliedCoupon(ctx); ok {
		v.Coupon = &c
	}
	if v.Lines == nil {
		v.Lines = []domain.CartLine{}
	}
	return v
}

// getCart handles GET /api/v1/cart
func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.cartView(r))
}

// clearCart handles DELETE /api/v1/cart
func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	s.session(r).cart.Clear(r.Context())
	writeData(w, http.StatusOK, s.cartView(r))
}

// addCartItem handles POST /api/v1/cart/items
func (s *Server) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
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
	if !s.session(r).cart.AddItem(r.Context(), req.ProductID, req.Quantity) {
		writeInvalid(w, r, "could not add item to cart")
		return
	}
	writeData(w, http.StatusCreated, s.cartView(r))
}

// updateCartItem handles PUT /api/v1/cart/items/{productId}
func (s *Server) updateCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productId")
	if err != nil {
		writeInvalid(w, r, err.Error())
		return
	}
	var req UpdateItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if !s.session(r).cart.UpdateQuantity(r.Context(), id, req.Quantity) {
		writeFailure(w, r, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("product not in cart: id=%d", id))
		return
	}
	writeData(w, http.StatusOK, s.cartView(r))
}

// removeCartItem handles DELETE /api/v1/cart/items/{productId}
func (s *Server) removeCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productId")
	if err != nil {
		writeInvalid(w, r, err.Error())
		return
	}
	if !s.session(r).cart.RemoveItem(r.Context(), id) {
		writeFailure(w, r, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("product not in cart: id=%d", id))
		return
	}
	writeData(w, http.StatusOK, s.cartView(r))
}

// applyCoupon handles PUT /api/v1/cart/coupon
func (s *Server) applyCoupon(w http.ResponseWriter, r *http.Request) {
	var req ApplyCouponRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	v := s.catalog.ValidateCoupon(req.Code)
	if !v.Valid {
		writeFailure(w, r, http.StatusUnprocessableEntity, "INVALID_COUPON", fmt.Sprintf("coupon %q is not valid", req.Code))
		return
	}
	s.session(r).cart.ApplyCoupon(r.Context(), *v.Coupon)
	writeData(w, http.StatusOK, s.cartView(r))
}

// removeCoupon handles DELETE /api/v1/cart/coupon
func (s *Server) removeCoupon(w http.ResponseWriter, r *http.Request) {
	s.session(r).cart.RemoveCoupon(r.Context())
	writeData(w, http.StatusOK, s.cartView(r))
}
