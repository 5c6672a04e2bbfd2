// Package util provides identifier helpers for the storefront.
package util

import (
	"strings"

	"github.com/google/uuid"
)

// OrderIDPrefix marks storefront order ids.
const OrderIDPrefix = "AP-"

// NewOrderID returns a unique order id: the "AP-" prefix followed by an
// upper-case RFC 4122 v4 UUID.
func NewOrderID() string {
	return OrderIDPrefix + strings.ToUpper(uuid.NewString())
}

// IsOrderID reports whether id was produced by NewOrderID.
func IsOrderID(id string) bool {
	rest, ok := strings.CutPrefix(id, OrderIDPrefix)
	if !ok {
		return false
	}
	u, err := uuid.Parse(rest)
	return err == nil && u.Version() == 4
}

// NewPaymentReference returns a reference for a simulated charge.
func NewPaymentReference() string {
	return "sim_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
