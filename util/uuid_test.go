package util

import (
	"regexp"
	"testing"
)

func TestNewOrderID_Format(t *testing.T) {
	id := NewOrderID()
	r := regexp.MustCompile(`^AP-[0-9A-F]{8}-[0-9A-F]{4}-4[0-9A-F]{3}-[89AB][0-9A-F]{3}-[0-9A-F]{12}$`)
	if !r.MatchString(id) {
		t.Fatalf("order id %s does not match expected format", id)
	}
	if !IsOrderID(id) {
		t.Fatalf("IsOrderID(%q) = false", id)
	}
}

func TestNewOrderID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewOrderID()
		if seen[id] {
			t.Fatalf("duplicate order id %s", id)
		}
		seen[id] = true
	}
}

func TestIsOrderID(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"AP-9F1C2D3E-4B5A-4C6D-8E7F-0123456789AB", true},
		{"9F1C2D3E-4B5A-4C6D-8E7F-0123456789AB", false},
		{"AP-not-a-uuid", false},
		{"ORD-12345-AP", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := IsOrderID(tc.in); got != tc.want {
				t.Fatalf("IsOrderID(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNewPaymentReference(t *testing.T) {
	ref := NewPaymentReference()
	r := regexp.MustCompile(`^sim_[0-9a-f]{32}$`)
	if !r.MatchString(ref) {
		t.Fatalf("payment reference %s does not match expected format", ref)
	}
}
