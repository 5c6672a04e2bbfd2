package domain

import "context"

// StateStore persists session state as opaque JSON values under string keys.
// Get returns a StateNotFoundError when the key holds no value.
type StateStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
