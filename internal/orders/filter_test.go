package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db/models"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/enums"
)

func strPtr(s string) *string { return &s }

func mkPedido(id string, mutate func(*models.Pedido)) models.Pedido {
	pedido := models.Pedido{
		ID:            id,
		Productos:     "Creatina x1",
		MetodoPago:    "efectivo",
		EstadoEntrega: enums.DeliveryStatusPendiente,
		FechaCreacion: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		Tienda:        "PARA MACHOS CR",
	}
	if mutate != nil {
		mutate(&pedido)
	}
	return pedido
}

func sampleList() []models.Pedido {
	return []models.Pedido{
		mkPedido("PED-1", func(p *models.Pedido) {
			p.NombreCliente = strPtr("María Jiménez")
			p.Distrito = strPtr("Escazú")
			p.MensajeroAsignado = strPtr("Carlos")
		}),
		mkPedido("PED-2", func(p *models.Pedido) {
			p.MensajeroAsignado = strPtr("Carlos")
			p.MensajeroConcretado = strPtr("Carlos")
			p.EstadoEntrega = enums.DeliveryStatusEntregado
			p.MetodoPago = "SINPE"
		}),
		mkPedido("PED-3", func(p *models.Pedido) {
			p.EstadoEntrega = enums.DeliveryStatusDevolucion
			p.MetodoPago = "2 Pagos"
		}),
		mkPedido("PED-4", nil),
	}
}

func TestFilterNoOpReturnsEverything(t *testing.T) {
	list := sampleList()
	got := Filter(list, FilterOptions{})
	assert.Equal(t, list, got)

	got = Filter(list, FilterOptions{
		Status:     enums.StatusFilterAll,
		MetodoPago: "all",
		Tienda:     "all",
		Date:       DateFilter{Mode: enums.DateModeAll},
	})
	assert.Equal(t, list, got)
}

func TestFilterIsSubsetAndIdempotent(t *testing.T) {
	list := sampleList()
	opts := FilterOptions{Status: enums.StatusFilterAsignado}

	once := Filter(list, opts)
	for _, pedido := range once {
		assert.Contains(t, list, pedido)
	}
	twice := Filter(once, opts)
	assert.Equal(t, once, twice)
}

func TestFilterSearchMatchesAnyField(t *testing.T) {
	list := sampleList()

	cases := []struct {
		query string
		want  []string
	}{
		{"ped-1", []string{"PED-1"}},
		{"maría", []string{"PED-1"}},
		{"escaz", []string{"PED-1"}},
		{"carlos", []string{"PED-1", "PED-2"}},
		{"creatina", []string{"PED-1", "PED-2", "PED-3", "PED-4"}},
		{"nomatch", nil},
	}
	for _, tc := range cases {
		got := Filter(list, FilterOptions{Query: tc.query})
		ids := make([]string, 0, len(got))
		for _, pedido := range got {
			ids = append(ids, pedido.ID)
		}
		if tc.want == nil {
			assert.Empty(t, ids, "query %q", tc.query)
			continue
		}
		assert.Equal(t, tc.want, ids, "query %q", tc.query)
	}
}

func TestFilterStatusBuckets(t *testing.T) {
	list := sampleList()

	asignados := Filter(list, FilterOptions{Status: enums.StatusFilterAsignado})
	require.Len(t, asignados, 1)
	assert.Equal(t, "PED-1", asignados[0].ID)

	entregados := Filter(list, FilterOptions{Status: enums.StatusFilterEntregado})
	require.Len(t, entregados, 1)
	assert.Equal(t, "PED-2", entregados[0].ID)

	sinAsignar := Filter(list, FilterOptions{Status: enums.StatusFilterSinAsignar})
	ids := []string{sinAsignar[0].ID, sinAsignar[1].ID}
	assert.ElementsMatch(t, []string{"PED-3", "PED-4"}, ids)

	devoluciones := Filter(list, FilterOptions{Status: enums.StatusFilterDevolucion})
	require.Len(t, devoluciones, 1)
	assert.Equal(t, "PED-3", devoluciones[0].ID)
}

func TestFilterPaymentMethodCollapsesDualAliases(t *testing.T) {
	list := sampleList()

	got := Filter(list, FilterOptions{MetodoPago: "2pagos"})
	require.Len(t, got, 1)
	assert.Equal(t, "PED-3", got[0].ID)

	got = Filter(list, FilterOptions{MetodoPago: "2 pagos"})
	require.Len(t, got, 1)
	assert.Equal(t, "PED-3", got[0].ID)

	got = Filter(list, FilterOptions{MetodoPago: "Sinpe"})
	require.Len(t, got, 1)
	assert.Equal(t, "PED-2", got[0].ID)
}

func TestFilterSpecificDateBoundary(t *testing.T) {
	included := mkPedido("PED-IN", func(p *models.Pedido) {
		p.FechaCreacion = time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)
	})
	excluded := mkPedido("PED-OUT", func(p *models.Pedido) {
		p.FechaCreacion = time.Date(2024, 3, 16, 0, 0, 1, 0, time.UTC)
	})

	got := Filter([]models.Pedido{included, excluded}, FilterOptions{
		Date: DateFilter{Mode: enums.DateModeSpecific, SpecificDate: "2024-03-15"},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "PED-IN", got[0].ID)
}

func TestFilterRangeEndIsInclusiveThroughDay(t *testing.T) {
	lastMinute := mkPedido("PED-LAST", func(p *models.Pedido) {
		p.FechaCreacion = time.Date(2024, 3, 20, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	})
	nextDay := mkPedido("PED-NEXT", func(p *models.Pedido) {
		p.FechaCreacion = time.Date(2024, 3, 21, 0, 0, 0, 0, time.UTC)
	})

	got := Filter([]models.Pedido{lastMinute, nextDay}, FilterOptions{
		Date: DateFilter{Mode: enums.DateModeRange, StartDate: "2024-03-18", EndDate: "2024-03-20"},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "PED-LAST", got[0].ID)
}

func TestFilterMalformedDatesFailClosed(t *testing.T) {
	list := sampleList()

	got := Filter(list, FilterOptions{
		Date: DateFilter{Mode: enums.DateModeSpecific, SpecificDate: "not-a-date"},
	})
	assert.Empty(t, got)

	got = Filter(list, FilterOptions{
		Date: DateFilter{Mode: enums.DateModeRange, StartDate: "2024-03-01", EndDate: "garbled"},
	})
	assert.Empty(t, got)

	zeroDate := mkPedido("PED-ZERO", func(p *models.Pedido) {
		p.FechaCreacion = time.Time{}
	})
	got = Filter([]models.Pedido{zeroDate}, FilterOptions{
		Date: DateFilter{Mode: enums.DateModeToday},
	})
	assert.Empty(t, got)
}

func TestFilterRelativeDateModes(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	today := mkPedido("PED-TODAY", func(p *models.Pedido) {
		p.FechaCreacion = time.Date(2024, 3, 15, 1, 0, 0, 0, time.UTC)
	})
	yesterday := mkPedido("PED-YDAY", func(p *models.Pedido) {
		p.FechaCreacion = time.Date(2024, 3, 14, 22, 0, 0, 0, time.UTC)
	})
	lastWeek := mkPedido("PED-WEEK", func(p *models.Pedido) {
		p.FechaCreacion = time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	})
	lastMonth := mkPedido("PED-LASTMONTH", func(p *models.Pedido) {
		p.FechaCreacion = time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)
	})
	list := []models.Pedido{today, yesterday, lastWeek, lastMonth}

	got := Filter(list, FilterOptions{Date: DateFilter{Mode: enums.DateModeToday, Now: now}})
	require.Len(t, got, 1)
	assert.Equal(t, "PED-TODAY", got[0].ID)

	got = Filter(list, FilterOptions{Date: DateFilter{Mode: enums.DateModeYesterday, Now: now}})
	require.Len(t, got, 1)
	assert.Equal(t, "PED-YDAY", got[0].ID)

	got = Filter(list, FilterOptions{Date: DateFilter{Mode: enums.DateModeWeek, Now: now}})
	assert.Len(t, got, 3)

	got = Filter(list, FilterOptions{Date: DateFilter{Mode: enums.DateModeLastMonth, Now: now}})
	require.Len(t, got, 1)
	assert.Equal(t, "PED-LASTMONTH", got[0].ID)
}
