// Package httpapi exposes the catalog, cart and checkout as a JSON API.
// Carts are namespaced by the X-Session-ID header.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aeroparts/cart"
	"aeroparts/catalog"
	"aeroparts/checkout"
	"aeroparts/domain"
)

// Options wires a Server.
type Options struct {
	Catalog        *catalog.Catalog
	Store          domain.StateStore
	Pricing        cart.Pricing
	Processor      checkout.Processor
	Logger         *slog.Logger
	DefaultSession string
}

// Server serves the storefront API.
type Server struct {
	catalog        *catalog.Catalog
	store          domain.StateStore
	pricing        cart.Pricing
	processor      checkout.Processor
	logger         *slog.Logger
	defaultSession string

	mu       sync.Mutex
	sessions map[string]*sessionState
}

type sessionState struct {
	cart     *cart.Manager
	checkout *checkout.Service
}

// NewServer builds a Server from opts.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	def := opts.DefaultSession
	if def == "" {
		def = "default"
	}
	processor := opts.Processor
	if processor == nil {
		processor = checkout.NewSimulatedProcessor(checkout.DefaultPaymentDelay)
	}
	return &Server{
		catalog:        opts.Catalog,
		store:          opts.Store,
		pricing:        opts.Pricing,
		processor:      processor,
		logger:         logger,
		defaultSession: def,
		sessions:       make(map[string]*sessionState),
	}
}

// session returns the cart and checkout for the request's session. Managers
// are shared between requests so a session's cart updates are serialised.
func (s *Server) session(r *http.Request) *sessionState {
	name := SessionFromContext(r.Context())
	if name == "" {
		name = s.defaultSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sessions[name]; ok {
		return st
	}
	mgr := cart.NewManager(s.store, name, s.pricing, s.logger)
	st := &sessionState{
		cart:     mgr,
		checkout: checkout.NewService(s.store, mgr, s.catalog, s.processor, s.logger),
	}
	s.sessions[name] = st
	return st
}

// Router returns the HTTP handler with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(Recovery(s.logger))
	r.Use(Session(s.defaultSession))
	r.Use(RequestLogging(s.logger))
	r.Use(PrometheusMetrics)

	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", s.listProducts)
		r.Get("/products/top", s.topProducts)
		r.Get("/products/featured", s.featuredProducts)
		r.Get("/products/{id}", s.getProduct)
		r.Get("/categories", s.listCategories)
		r.Get("/brands", s.listBrands)
		r.Get("/tags", s.listTags)
		r.Get("/stats", s.stats)
		r.Get("/coupons/{code}", s.getCoupon)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", s.getCart)
			r.Delete("/", s.clearCart)
			r.Post("/items", s.addCartItem)
			r.Put("/items/{productId}", s.updateCartItem)
			r.Delete("/items/{productId}", s.removeCartItem)
			r.Put("/coupon", s.applyCoupon)
			r.Delete("/coupon", s.removeCoupon)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Put("/shipping", s.saveShipping)
			r.Get("/shipping", s.getShipping)
			r.Put("/buy-now", s.setBuyNow)
			r.Delete("/buy-now", s.clearBuyNow)
			r.Get("/quote", s.quote)
			r.Post("/orders", s.placeOrder)
			r.Get("/orders/last", s.lastOrder)
		})
	})

	return r
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

const healthProbeKey = "__health__"

// health reports whether the state store answers. A missing probe key is a
// healthy answer.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "up", Timestamp: time.Now().UTC(), Checks: map[string]string{"store": "up"}}
	status := http.StatusOK
	if _, err := s.store.Get(ctx, healthProbeKey); err != nil && !domain.IsStateNotFoundError(err) {
		resp.Status = "down"
		resp.Checks["store"] = "down"
		status = http.StatusServiceUnavailable
	}
	WriteJSON(w, status, resp)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
