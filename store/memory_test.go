package store

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"aeroparts/domain"
)

// exerciseStore runs the StateStore contract against any backend.
func exerciseStore(t *testing.T, s domain.StateStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing key", func(t *testing.T) {
		_, err := s.Get(ctx, "no-such")
		if !domain.IsStateNotFoundError(err) {
			t.Fatalf("expected StateNotFoundError, got %v", err)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		if err := s.Set(ctx, "default:cart", []byte(`[{"productId":1,"quantity":2}]`)); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		got, err := s.Get(ctx, "default:cart")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if string(got) != `[{"productId":1,"quantity":2}]` {
			t.Fatalf("unexpected value %s", got)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		_ = s.Set(ctx, "default:coupon", []byte(`{"code":"a"}`))
		_ = s.Set(ctx, "default:coupon", []byte(`{"code":"b"}`))
		got, _ := s.Get(ctx, "default:coupon")
		if string(got) != `{"code":"b"}` {
			t.Fatalf("expected last write to win, got %s", got)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := s.Delete(ctx, "default:coupon"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := s.Get(ctx, "default:coupon"); !domain.IsStateNotFoundError(err) {
			t.Fatalf("expected StateNotFoundError after delete, got %v", err)
		}
		if err := s.Delete(ctx, "default:coupon"); err != nil {
			t.Fatalf("deleting a missing key should succeed, got %v", err)
		}
	})

	t.Run("sessions are independent", func(t *testing.T) {
		_ = s.Set(ctx, Key("alice", "cart"), []byte(`[]`))
		if _, err := s.Get(ctx, Key("bob", "cart")); !domain.IsStateNotFoundError(err) {
			t.Fatalf("expected bob's cart to be missing, got %v", err)
		}
	})
}

func TestInMemoryStore_Contract(t *testing.T) {
	exerciseStore(t, NewInMemoryStore())
}

func TestInMemoryStore_CopiesValues(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	buf := []byte(`[1]`)
	_ = s.Set(ctx, "k", buf)
	buf[1] = '2'

	got, _ := s.Get(ctx, "k")
	if string(got) != `[1]` {
		t.Fatalf("stored value changed with caller buffer: %s", got)
	}
	got[1] = '3'
	again, _ := s.Get(ctx, "k")
	if string(again) != `[1]` {
		t.Fatalf("stored value changed with returned buffer: %s", again)
	}
}

func TestInMemoryStore_Cancellation(t *testing.T) {
	s := NewInMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Set(ctx, "k", []byte(`1`)); err == nil {
		t.Fatal("expected context error on canceled set")
	}
	if _, err := s.Get(ctx, "k"); err == nil {
		t.Fatal("expected context error on canceled get")
	}
	if err := s.Delete(ctx, "k"); err == nil {
		t.Fatal("expected context error on canceled delete")
	}
}

func TestInMemoryStore_ConcurrentAccess(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	var wg sync.WaitGroup

	n := 100
	wg.Add(n)
	for i := 0; i < n; i++ {
		key := "session-" + strconv.Itoa(i) + ":cart"
		go func(key string) {
			defer wg.Done()
			_ = s.Set(ctx, key, []byte(`[]`))
			_, _ = s.Get(ctx, key)
		}(key)
	}
	wg.Wait()

	if s.Len() != n {
		t.Fatalf("expected %d keys, got %d", n, s.Len())
	}
}
