package enums

import "fmt"

// DateMode selects how the creation-date predicate compares pedido dates.
type DateMode string

const (
	DateModeAll       DateMode = "all"
	DateModeToday     DateMode = "today"
	DateModeYesterday DateMode = "yesterday"
	DateModeWeek      DateMode = "week"
	DateModeMonth     DateMode = "month"
	DateModeLastMonth DateMode = "last_month"
	DateModeYear      DateMode = "year"
	DateModeSpecific  DateMode = "specific"
	DateModeRange     DateMode = "range"
)

var validDateModes = []DateMode{
	DateModeAll,
	DateModeToday,
	DateModeYesterday,
	DateModeWeek,
	DateModeMonth,
	DateModeLastMonth,
	DateModeYear,
	DateModeSpecific,
	DateModeRange,
}

// String implements fmt.Stringer.
func (d DateMode) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DateMode.
func (d DateMode) IsValid() bool {
	for _, candidate := range validDateModes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDateMode converts raw input into a DateMode. Empty input means no
// date filtering.
func ParseDateMode(value string) (DateMode, error) {
	if value == "" {
		return DateModeAll, nil
	}
	for _, candidate := range validDateModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid date mode %q", value)
}
