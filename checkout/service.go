// Package checkout turns a cart or a buy-now selection into a paid order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"aeroparts/cart"
	"aeroparts/domain"
	"aeroparts/store"
	"aeroparts/util"
)

// State names under the session namespace.
const (
	KeyShipping  = "shipping_info"
	KeyBuyNow    = "buy_now"
	KeyLastOrder = "last_order"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNoBuyNowItem     = errors.New("no buy-now item selected")
	ErrShippingRequired = errors.New("shipping information is required")
	ErrInvalidBuyNow    = errors.New("buy-now needs a product id and a positive quantity")
	ErrUnknownSource    = errors.New("unknown order source")
	ErrPaymentFailed    = errors.New("payment failed")
)

var (
	ordersPlaced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aeroparts_orders_placed_total",
			Help: "Total number of orders placed",
		},
		[]string{"source"},
	)

	paymentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aeroparts_payment_duration_seconds",
			Help:    "Time spent charging the payment processor",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"processor", "status"},
	)
)

// Service runs checkout for the session of its cart manager.
type Service struct {
	store     domain.StateStore
	cart      *cart.Manager
	products  domain.ProductLookup
	processor Processor
	logger    *slog.Logger
	now       func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the order timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires checkout for cartMgr's session. Buy-now records, shipping
// info and the last order live in st next to the cart.
func NewService(st domain.StateStore, cartMgr *cart.Manager, products domain.ProductLookup, processor Processor, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		store:     st,
		cart:      cartMgr,
		products:  products,
		processor: processor,
		logger:    logger.With("session", cartMgr.Session()),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) key(name string) string {
	return store.Key(s.cart.Session(), name)
}

// read decodes a state value, logging anything but a missing key.
func (s *Service) read(ctx context.Context, name string, v any) bool {
	if err := store.GetJSON(ctx, s.store, s.key(name), v); err != nil {
		if !domain.IsStateNotFoundError(err) {
			s.logger.Error("failed to read state", "key", name, "error", err)
		}
		return false
	}
	return true
}

func (s *Service) write(ctx context.Context, name string, v any) {
	if err := store.PutJSON(ctx, s.store, s.key(name), v); err != nil {
		s.logger.Error("failed to write state", "key", name, "error", err)
	}
}

func (s *Service) remove(ctx context.Context, name string) {
	if err := s.store.Delete(ctx, s.key(name)); err != nil {
		s.logger.Error("failed to delete state", "key", name, "error", err)
	}
}

// SaveShipping stores the shipping form as given.
func (s *Service) SaveShipping(ctx context.Context, info map[string]string) {
	if info == nil {
		info = map[string]string{}
	}
	s.write(ctx, KeyShipping, info)
}

// Shipping returns the stored shipping form.
func (s *Service) Shipping(ctx context.Context) (map[string]string, bool) {
	var info map[string]string
	if !s.read(ctx, KeyShipping, &info) || info == nil {
		return nil, false
	}
	return info, true
}

// SetBuyNow selects a single product to purchase without the cart.
func (s *Service) SetBuyNow(ctx context.Context, productID, quantity int) error {
	if productID == 0 || quantity <= 0 {
		return ErrInvalidBuyNow
	}
	s.write(ctx, KeyBuyNow, domain.CartItem{ProductID: productID, Quantity: quantity})
	return nil
}

// BuyNow returns the pending buy-now selection.
func (s *Service) BuyNow(ctx context.Context) (domain.CartItem, bool) {
	var item domain.CartItem
	if !s.read(ctx, KeyBuyNow, &item) || item.Quantity <= 0 {
		return domain.CartItem{}, false
	}
	return item, true
}

// ClearBuyNow drops the buy-now selection.
func (s *Service) ClearBuyNow(ctx context.Context) {
	s.remove(ctx, KeyBuyNow)
}

// LastOrder returns the most recently placed order.
func (s *Service) LastOrder(ctx context.Context) (Order, bool) {
	var o Order
	if !s.read(ctx, KeyLastOrder, &o) {
		return Order{}, false
	}
	return o, true
}

// Quote prices source without charging it.
func (s *Service) Quote(ctx context.Context, source Source) (cart.Totals, error) {
	lines, items, err := s.lines(ctx, source)
	if err != nil {
		return cart.Totals{}, err
	}
	coupon := s.coupon(ctx)
	return s.cart.Pricing().Compute(lines, coupon, cart.CountItems(items)), nil
}

func (s *Service) coupon(ctx context.Context) *domain.Coupon {
	if c, ok := s.cart.AppliedCoupon(ctx); ok {
		return &c
	}
	return nil
}

// lines resolves source against the catalog. The returned items are the
// entries as read, unknown products included.
func (s *Service) lines(ctx context.Context, source Source) ([]domain.CartLine, []domain.CartItem, error) {
	switch source {
	case SourceCart:
		items := s.cart.Items(ctx)
		lines := cart.ResolveLines(items, s.products)
		if len(lines) == 0 {
			return nil, nil, ErrEmptyCart
		}
		return lines, items, nil
	case SourceBuyNow:
		item, ok := s.BuyNow(ctx)
		if !ok {
			return nil, nil, ErrNoBuyNowItem
		}
		p, ok := s.products.Product(item.ProductID)
		if !ok {
			return nil, nil, domain.NewNotFoundError("product", item.ProductID)
		}
		return []domain.CartLine{cart.Line(p, item.Quantity)}, []domain.CartItem{item}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
}

// PlaceOrder charges source and records the order. Shipping information must
// have been saved first. The applied coupon discounts both sources. On
// success the charged units leave the cart, or the buy-now selection is
// dropped. Items added to the cart while the charge is in flight stay.
func (s *Service) PlaceOrder(ctx context.Context, source Source) (Order, error) {
	shipping, ok := s.Shipping(ctx)
	if !ok {
		return Order{}, ErrShippingRequired
	}
	lines, items, err := s.lines(ctx, source)
	if err != nil {
		return Order{}, err
	}
	coupon := s.coupon(ctx)
	totals := s.cart.Pricing().Compute(lines, coupon, cart.CountItems(items))

	id := util.NewOrderID()
	start := time.Now()
	receipt, err := s.processor.Charge(ctx, ChargeRequest{OrderID: id, Amount: totals.Total})
	status := "succeeded"
	if err != nil {
		status = "failed"
	}
	paymentDuration.WithLabelValues(s.processor.Name(), status).Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.Error("payment failed", "order_id", id, "error", err)
		return Order{}, fmt.Errorf("%w: %w", ErrPaymentFailed, err)
	}

	orderItems := make([]OrderItem, 0, len(lines))
	for _, l := range lines {
		orderItems = append(orderItems, OrderItem{Product: snapshot(l.Product), Quantity: l.Quantity, Subtotal: l.Subtotal})
	}
	order := Order{
		ID:       id,
		Date:     s.now().UTC().Truncate(time.Second),
		Source:   source,
		Items:    orderItems,
		Totals:   orderTotals(totals, coupon != nil),
		Coupon:   coupon,
		Shipping: shipping,
		Payment:  receipt,
	}
	s.write(ctx, KeyLastOrder, order)

	switch source {
	case SourceCart:
		s.cart.Deduct(ctx, items)
	case SourceBuyNow:
		s.ClearBuyNow(ctx)
	}

	ordersPlaced.WithLabelValues(string(source)).Inc()
	s.logger.Info("order placed",
		"order_id", order.ID,
		"source", source,
		"items", order.ItemCount(),
		"total", totals.Total,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return order, nil
}
