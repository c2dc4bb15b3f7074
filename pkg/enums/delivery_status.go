package enums

import "fmt"

// DeliveryStatus tracks the lifecycle of a pedido. It is the single source of
// truth for delivery state; courier-derived views are computed from it plus the
// courier fields, never stored.
type DeliveryStatus string

const (
	DeliveryStatusPendiente  DeliveryStatus = "pendiente"
	DeliveryStatusEnRuta     DeliveryStatus = "en_ruta"
	DeliveryStatusEntregado  DeliveryStatus = "entregado"
	DeliveryStatusDevolucion DeliveryStatus = "devolucion"
	DeliveryStatusReagendado DeliveryStatus = "reagendado"
)

var validDeliveryStatuses = []DeliveryStatus{
	DeliveryStatusPendiente,
	DeliveryStatusEnRuta,
	DeliveryStatusEntregado,
	DeliveryStatusDevolucion,
	DeliveryStatusReagendado,
}

// String implements fmt.Stringer.
func (d DeliveryStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryStatus.
func (d DeliveryStatus) IsValid() bool {
	for _, candidate := range validDeliveryStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the delivery attempt. There is no
// terminal-state lock: a delivered pedido can still be re-opened.
func (d DeliveryStatus) IsTerminal() bool {
	switch d {
	case DeliveryStatusEntregado, DeliveryStatusDevolucion, DeliveryStatusReagendado:
		return true
	default:
		return false
	}
}

// ParseDeliveryStatus converts raw input into a DeliveryStatus.
func ParseDeliveryStatus(value string) (DeliveryStatus, error) {
	for _, candidate := range validDeliveryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery status %q", value)
}
