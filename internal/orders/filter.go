package orders

import (
	"strings"
	"time"

	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db/models"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/enums"
)

// FilterOptions is the conjunction of field-level predicates applied to a
// pedido list. Zero values ("all" / empty strings) make the corresponding
// predicate vacuously true.
type FilterOptions struct {
	Query      string
	Status     enums.StatusFilter
	Distrito   string
	Mensajero  string
	Tienda     string
	MetodoPago string
	Date       DateFilter
}

// DateFilter compares a pedido's creation date at calendar-day resolution.
// Specific and Range carry their operands; the other modes are computed
// relative to Now (defaulting to time.Now when zero).
type DateFilter struct {
	Mode         enums.DateMode
	SpecificDate string
	StartDate    string
	EndDate      string
	Now          time.Time
}

// Filter returns the subsequence of pedidos satisfying every active predicate.
// The input slice is never mutated and the result is always a subset of it.
func Filter(pedidos []models.Pedido, opts FilterOptions) []models.Pedido {
	out := make([]models.Pedido, 0, len(pedidos))
	for _, pedido := range pedidos {
		if matches(pedido, opts) {
			out = append(out, pedido)
		}
	}
	return out
}

func matches(pedido models.Pedido, opts FilterOptions) bool {
	if !matchesQuery(pedido, opts.Query) {
		return false
	}
	if !matchesStatus(pedido, opts.Status) {
		return false
	}
	if !matchesField(derefStr(pedido.Distrito), opts.Distrito) {
		return false
	}
	if !matchesField(derefStr(pedido.MensajeroAsignado), opts.Mensajero) {
		return false
	}
	if !matchesField(pedido.Tienda, opts.Tienda) {
		return false
	}
	if !matchesPaymentMethod(pedido.MetodoPago, opts.MetodoPago) {
		return false
	}
	return matchesDate(pedido.FechaCreacion, opts.Date)
}

// matchesQuery is true when the search text appears in ANY of the candidate
// fields, case-insensitively.
func matchesQuery(pedido models.Pedido, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	candidates := []string{
		pedido.ID,
		derefStr(pedido.NombreCliente),
		derefStr(pedido.Telefono),
		derefStr(pedido.Distrito),
		pedido.Productos,
		derefStr(pedido.MensajeroAsignado),
	}
	for _, candidate := range candidates {
		if candidate != "" && strings.Contains(strings.ToLower(candidate), q) {
			return true
		}
	}
	return false
}

func matchesStatus(pedido models.Pedido, status enums.StatusFilter) bool {
	switch status {
	case "", enums.StatusFilterAll:
		return true
	case enums.StatusFilterAsignado:
		return pedido.TieneMensajero() && !pedido.Concretado()
	case enums.StatusFilterEntregado:
		return pedido.Concretado()
	case enums.StatusFilterSinAsignar:
		return !pedido.TieneMensajero()
	case enums.StatusFilterDevolucion:
		return pedido.EstadoEntrega == enums.DeliveryStatusDevolucion
	case enums.StatusFilterReagendado:
		return pedido.EstadoEntrega == enums.DeliveryStatusReagendado
	default:
		return false
	}
}

func matchesField(value, want string) bool {
	w := strings.TrimSpace(want)
	if w == "" || strings.EqualFold(w, "all") {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(value), w)
}

func matchesPaymentMethod(value, want string) bool {
	w := strings.TrimSpace(want)
	if w == "" || strings.EqualFold(w, "all") {
		return true
	}
	wantMethod, ok := enums.NormalizePaymentMethod(w)
	if !ok {
		return false
	}
	gotMethod, ok := enums.NormalizePaymentMethod(value)
	if !ok {
		return false
	}
	return gotMethod == wantMethod
}

// matchesDate evaluates the creation date against the selected sub-mode at
// calendar-day resolution. Unparseable operands fail closed: the pedido is
// excluded rather than let through.
func matchesDate(created time.Time, filter DateFilter) bool {
	switch filter.Mode {
	case "", enums.DateModeAll:
		return true
	}
	if created.IsZero() {
		return false
	}

	now := filter.Now
	if now.IsZero() {
		now = time.Now()
	}
	day := startOfDay(created)
	today := startOfDay(now)

	switch filter.Mode {
	case enums.DateModeToday:
		return day.Equal(today)
	case enums.DateModeYesterday:
		return day.Equal(today.AddDate(0, 0, -1))
	case enums.DateModeWeek:
		return !day.Before(today.AddDate(0, 0, -7)) && !day.After(today)
	case enums.DateModeMonth:
		return !day.Before(today.AddDate(0, 0, -30)) && !day.After(today)
	case enums.DateModeYear:
		return !day.Before(today.AddDate(0, 0, -365)) && !day.After(today)
	case enums.DateModeLastMonth:
		firstOfThisMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		firstOfLastMonth := firstOfThisMonth.AddDate(0, -1, 0)
		return !day.Before(firstOfLastMonth) && day.Before(firstOfThisMonth)
	case enums.DateModeSpecific:
		want, err := parseDay(filter.SpecificDate, created.Location())
		if err != nil {
			return false
		}
		return day.Equal(want)
	case enums.DateModeRange:
		start, err := parseDay(filter.StartDate, created.Location())
		if err != nil {
			return false
		}
		end, err := parseDay(filter.EndDate, created.Location())
		if err != nil {
			return false
		}
		// Range end is inclusive through the whole end day.
		endOfRange := end.AddDate(0, 0, 1)
		return !created.Before(start) && created.Before(endOfRange)
	default:
		return false
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func parseDay(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation("2006-01-02", strings.TrimSpace(value), loc)
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
