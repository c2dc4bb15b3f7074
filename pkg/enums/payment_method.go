package enums

import (
	"fmt"
	"strings"
)

// PaymentMethod describes how a customer settles a pedido.
type PaymentMethod string

const (
	PaymentMethodEfectivo PaymentMethod = "efectivo"
	PaymentMethodSinpe    PaymentMethod = "sinpe"
	PaymentMethodTarjeta  PaymentMethod = "tarjeta"
	PaymentMethodDosPagos PaymentMethod = "2pagos"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodEfectivo,
	PaymentMethodSinpe,
	PaymentMethodTarjeta,
	PaymentMethodDosPagos,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// NormalizePaymentMethod maps raw order text onto a canonical method. Matching
// is case-insensitive and "2 pagos" collapses into the dual-payment bucket.
// Unknown or empty values return false and belong to no bucket.
func NormalizePaymentMethod(value string) (PaymentMethod, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "efectivo":
		return PaymentMethodEfectivo, true
	case "sinpe":
		return PaymentMethodSinpe, true
	case "tarjeta":
		return PaymentMethodTarjeta, true
	case "2pagos", "2 pagos":
		return PaymentMethodDosPagos, true
	default:
		return "", false
	}
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	if method, ok := NormalizePaymentMethod(value); ok {
		return method, nil
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
