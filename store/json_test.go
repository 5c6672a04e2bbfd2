package store

import (
	"context"
	"testing"

	"aeroparts/domain"
)

func TestGetPutJSON(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	key := Key("default", "cart")

	if key != "default:cart" {
		t.Fatalf("unexpected key %q", key)
	}

	in := []domain.CartItem{{ProductID: 1, Quantity: 2}}
	if err := PutJSON(ctx, s, key, in); err != nil {
		t.Fatalf("PutJSON failed: %v", err)
	}
	raw, _ := s.Get(ctx, key)
	if string(raw) != `[{"productId":1,"quantity":2}]` {
		t.Fatalf("unexpected encoding %s", raw)
	}

	var out []domain.CartItem
	if err := GetJSON(ctx, s, key, &out); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if len(out) != 1 || out[0] != in[0] {
		t.Fatalf("round trip mismatch: %+v", out)
	}

	_ = s.Set(ctx, "bad", []byte(`{`))
	if err := GetJSON(ctx, s, "bad", &out); err == nil || domain.IsStateNotFoundError(err) {
		t.Fatalf("expected decode error, got %v", err)
	}
	if err := GetJSON(ctx, s, "missing", &out); !domain.IsStateNotFoundError(err) {
		t.Fatalf("expected StateNotFoundError, got %v", err)
	}
}
