package orders

import (
	"github.com/shopspring/decimal"

	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db/models"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/enums"
)

// MethodBucket accumulates count and value per payment method.
type MethodBucket struct {
	Count int             `json:"count"`
	Sum   decimal.Decimal `json:"sum"`
}

// Stats are the derived dashboard numbers for a pedido set. Asignados,
// Entregados and SinAsignar partition the set by courier state; every pedido
// lands in exactly one of the three.
type Stats struct {
	Total         int                                  `json:"total"`
	Asignados     int                                  `json:"asignados"`
	Entregados    int                                  `json:"entregados"`
	SinAsignar    int                                  `json:"sin_asignar"`
	Devoluciones  int                                  `json:"devoluciones"`
	Reagendados   int                                  `json:"reagendados"`
	ValorTotal    decimal.Decimal                      `json:"valor_total"`
	PorMetodoPago map[enums.PaymentMethod]MethodBucket `json:"por_metodo_pago"`
}

// Aggregate computes Stats over the given pedidos in a single pass. Pedidos
// with an empty or unrecognized metodo_pago belong to no payment bucket.
func Aggregate(pedidos []models.Pedido) Stats {
	stats := Stats{
		ValorTotal:    decimal.Zero,
		PorMetodoPago: make(map[enums.PaymentMethod]MethodBucket),
	}
	for _, pedido := range pedidos {
		stats.Total++
		switch {
		case pedido.Concretado():
			stats.Entregados++
		case pedido.TieneMensajero():
			stats.Asignados++
		default:
			stats.SinAsignar++
		}
		switch pedido.EstadoEntrega {
		case enums.DeliveryStatusDevolucion:
			stats.Devoluciones++
		case enums.DeliveryStatusReagendado:
			stats.Reagendados++
		}
		stats.ValorTotal = stats.ValorTotal.Add(pedido.ValorTotal)

		if method, ok := enums.NormalizePaymentMethod(pedido.MetodoPago); ok {
			bucket := stats.PorMetodoPago[method]
			bucket.Count++
			bucket.Sum = bucket.Sum.Add(pedido.ValorTotal)
			stats.PorMetodoPago[method] = bucket
		}
	}
	return stats
}
