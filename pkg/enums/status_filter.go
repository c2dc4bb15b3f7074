package enums

import "fmt"

// StatusFilter selects a courier-state bucket in the pedido list filter.
// Buckets asignado/entregado/sin_asignar derive from the courier fields;
// devolucion/reagendado match the explicit delivery status.
type StatusFilter string

const (
	StatusFilterAll        StatusFilter = "all"
	StatusFilterAsignado   StatusFilter = "asignado"
	StatusFilterEntregado  StatusFilter = "entregado"
	StatusFilterSinAsignar StatusFilter = "sin_asignar"
	StatusFilterDevolucion StatusFilter = "devolucion"
	StatusFilterReagendado StatusFilter = "reagendado"
)

var validStatusFilters = []StatusFilter{
	StatusFilterAll,
	StatusFilterAsignado,
	StatusFilterEntregado,
	StatusFilterSinAsignar,
	StatusFilterDevolucion,
	StatusFilterReagendado,
}

// String implements fmt.Stringer.
func (s StatusFilter) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StatusFilter.
func (s StatusFilter) IsValid() bool {
	for _, candidate := range validStatusFilters {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStatusFilter converts raw input into a StatusFilter. Empty input means
// no filtering.
func ParseStatusFilter(value string) (StatusFilter, error) {
	if value == "" {
		return StatusFilterAll, nil
	}
	for _, candidate := range validStatusFilters {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid status filter %q", value)
}
