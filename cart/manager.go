// Package cart keeps a session's persisted cart and applied coupon and prices
// them.
package cart

import (
	"context"
	"log/slog"
	"sync"

	"aeroparts/domain"
	"aeroparts/store"
)

// State names under the session namespace.
const (
	KeyCart   = "cart"
	KeyCoupon = "coupon"
)

// Manager mutates one session's cart. Every change is written to the store
// immediately. Storage failures are logged and read back as an empty cart;
// they never surface to callers. Within a process, read-modify-write cycles
// are serialised; across processes the last write to a key wins.
type Manager struct {
	mu      sync.Mutex
	store   domain.StateStore
	session string
	pricing Pricing
	logger  *slog.Logger
}

// NewManager returns a Manager for session. A nil logger discards logs.
func NewManager(st domain.StateStore, session string, pricing Pricing, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		store:   st,
		session: session,
		pricing: pricing,
		logger:  logger.With("session", session),
	}
}

// Session returns the namespace this manager writes under.
func (m *Manager) Session() string { return m.session }

// Pricing returns the manager's pricing settings.
func (m *Manager) Pricing() Pricing { return m.pricing }

func (m *Manager) key(name string) string {
	return store.Key(m.session, name)
}

// Items returns the persisted cart. It is never nil.
func (m *Manager) Items(ctx context.Context) []domain.CartItem {
	var raw []domain.CartItem
	if err := store.GetJSON(ctx, m.store, m.key(KeyCart), &raw); err != nil {
		if !domain.IsStateNotFoundError(err) {
			m.logger.Error("failed to read cart", "error", err)
		}
		return []domain.CartItem{}
	}
	items := make([]domain.CartItem, 0, len(raw))
	for _, it := range raw {
		if it.Quantity <= 0 {
			m.logger.Warn("dropping stored cart entry", "product_id", it.ProductID, "quantity", it.Quantity)
			continue
		}
		items = append(items, it)
	}
	return items
}

// Save replaces the persisted cart.
func (m *Manager) Save(ctx context.Context, items []domain.CartItem) {
	if items == nil {
		items = []domain.CartItem{}
	}
	if err := store.PutJSON(ctx, m.store, m.key(KeyCart), items); err != nil {
		m.logger.Error("failed to save cart", "error", err)
	}
}

// AddItem adds quantity units of productID, merging with an existing entry.
// It returns false for a zero product id or a non-positive quantity.
func (m *Manager) AddItem(ctx context.Context, productID, quantity int) bool {
	if productID == 0 || quantity <= 0 {
		m.logger.Warn("invalid add to cart", "product_id", productID, "quantity", quantity)
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.Items(ctx)
	if i := findItem(items, productID); i >= 0 {
		items[i].Quantity += quantity
	} else {
		items = append(items, domain.CartItem{ProductID: productID, Quantity: quantity})
	}
	m.Save(ctx, items)
	m.logger.Debug("added to cart", "product_id", productID, "quantity", quantity)
	return true
}

// RemoveItem deletes the entry for productID. It returns false when the cart
// has no such entry.
func (m *Manager) RemoveItem(ctx context.Context, productID int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(ctx, productID)
}

func (m *Manager) removeLocked(ctx context.Context, productID int) bool {
	items := m.Items(ctx)
	i := findItem(items, productID)
	if i < 0 {
		m.logger.Warn("product not in cart", "product_id", productID)
		return false
	}
	items = append(items[:i], items[i+1:]...)
	m.Save(ctx, items)
	return true
}

// UpdateQuantity sets the quantity of an existing entry. A quantity of zero
// or less removes the entry.
func (m *Manager) UpdateQuantity(ctx context.Context, productID, quantity int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if quantity <= 0 {
		return m.removeLocked(ctx, productID)
	}

	items := m.Items(ctx)
	i := findItem(items, productID)
	if i < 0 {
		m.logger.Warn("product not in cart", "product_id", productID)
		return false
	}
	items[i].Quantity = quantity
	m.Save(ctx, items)
	return true
}

// Deduct subtracts the given quantities from the matching entries and drops
// entries that reach zero. Entries added or raised since items were read are
// kept; only the deducted units go away.
func (m *Manager) Deduct(ctx context.Context, items []domain.CartItem) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.Items(ctx)
	for _, it := range items {
		i := findItem(current, it.ProductID)
		if i < 0 {
			continue
		}
		current[i].Quantity -= it.Quantity
		if current[i].Quantity <= 0 {
			current = append(current[:i], current[i+1:]...)
		}
	}
	m.Save(ctx, current)
}

// Clear empties the cart.
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Save(ctx, nil)
}

// ItemCount returns the total number of units in the cart.
func (m *Manager) ItemCount(ctx context.Context) int {
	return CountItems(m.Items(ctx))
}

// ApplyCoupon replaces the applied coupon.
func (m *Manager) ApplyCoupon(ctx context.Context, coupon domain.Coupon) {
	if err := store.PutJSON(ctx, m.store, m.key(KeyCoupon), coupon); err != nil {
		m.logger.Error("failed to save coupon", "code", coupon.Code, "error", err)
	}
}

// RemoveCoupon clears the applied coupon.
func (m *Manager) RemoveCoupon(ctx context.Context) {
	if err := m.store.Delete(ctx, m.key(KeyCoupon)); err != nil {
		m.logger.Error("failed to remove coupon", "error", err)
	}
}

// AppliedCoupon returns the applied coupon, if any.
func (m *Manager) AppliedCoupon(ctx context.Context) (domain.Coupon, bool) {
	var c domain.Coupon
	if err := store.GetJSON(ctx, m.store, m.key(KeyCoupon), &c); err != nil {
		if !domain.IsStateNotFoundError(err) {
			m.logger.Error("failed to read coupon", "error", err)
		}
		return domain.Coupon{}, false
	}
	return c, true
}

// Lines returns the cart joined with the catalog. Entries for unknown
// products are left out.
func (m *Manager) Lines(ctx context.Context, lookup domain.ProductLookup) []domain.CartLine {
	items := m.Items(ctx)
	lines := ResolveLines(items, lookup)
	if len(lines) != len(items) {
		m.logger.Warn("cart references unknown products", "dropped", len(items)-len(lines))
	}
	return lines
}

// Totals prices the cart with the applied coupon. ItemCount includes entries
// whose product is unknown.
func (m *Manager) Totals(ctx context.Context, lookup domain.ProductLookup) Totals {
	items := m.Items(ctx)
	var coupon *domain.Coupon
	if c, ok := m.AppliedCoupon(ctx); ok {
		coupon = &c
	}
	return m.pricing.Compute(ResolveLines(items, lookup), coupon, CountItems(items))
}

func findItem(items []domain.CartItem, productID int) int {
	for i, it := range items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}
