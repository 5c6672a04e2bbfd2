package catalog

import "strings"

// Entity is any catalog record addressable by id and name.
type Entity interface {
	EntityID() int
	EntityName() string
}

// Repository is a read-only, ordered collection of entities. Lookups scan the
// collection; datasets are small. Entities with a Clone method are cloned on
// the way out so callers never share their slices.
type Repository[T Entity] struct {
	items []T
}

// NewRepository copies items into a new Repository, keeping their order.
func NewRepository[T Entity](items []T) *Repository[T] {
	cp := make([]T, len(items))
	copy(cp, items)
	return &Repository[T]{items: cp}
}

// ByID returns the entity with the given id, or false when absent.
func (r *Repository[T]) ByID(id int) (T, bool) {
	return r.Find(func(item T) bool { return item.EntityID() == id })
}

// ByName returns the first entity whose name equals name, ignoring case.
func (r *Repository[T]) ByName(name string) (T, bool) {
	return r.Find(func(item T) bool { return strings.EqualFold(item.EntityName(), name) })
}

// All returns a copy of every entity in collection order.
func (r *Repository[T]) All() []T {
	cp := make([]T, len(r.items))
	for i, item := range r.items {
		cp[i] = detach(item)
	}
	return cp
}

// Filter returns the entities matching pred, in collection order.
func (r *Repository[T]) Filter(pred func(T) bool) []T {
	out := make([]T, 0)
	for _, item := range r.items {
		if pred(item) {
			out = append(out, detach(item))
		}
	}
	return out
}

// Find returns the first entity matching pred.
func (r *Repository[T]) Find(pred func(T) bool) (T, bool) {
	for _, item := range r.items {
		if pred(item) {
			return detach(item), true
		}
	}
	var zero T
	return zero, false
}

// Count returns the number of entities.
func (r *Repository[T]) Count() int {
	return len(r.items)
}

// Search returns entities whose name contains query, ignoring case.
func (r *Repository[T]) Search(query string) []T {
	q := strings.ToLower(query)
	return r.Filter(func(item T) bool {
		return strings.Contains(strings.ToLower(item.EntityName()), q)
	})
}

func detach[T any](item T) T {
	if c, ok := any(item).(interface{ Clone() T }); ok {
		return c.Clone()
	}
	return item
}
