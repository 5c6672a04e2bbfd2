package store

import (
	"context"
	"encoding/json"
	"fmt"

	"aeroparts/domain"
)

// Key namespaces a state name under a session, e.g. "default:cart".
func Key(session, name string) string {
	return session + ":" + name
}

// GetJSON reads key and decodes it into v. A missing key yields a
// StateNotFoundError.
func GetJSON(ctx context.Context, s domain.StateStore, key string, v any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// PutJSON encodes v and stores it under key.
func PutJSON(ctx context.Context, s domain.StateStore, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}
