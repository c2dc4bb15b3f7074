package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db/models"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/enums"
)

func TestAggregateCourierPartitionAccountsEveryPedido(t *testing.T) {
	list := sampleList()
	stats := Aggregate(list)

	assert.Equal(t, len(list), stats.Total)
	assert.Equal(t, stats.Total, stats.Asignados+stats.Entregados+stats.SinAsignar)
	assert.Equal(t, 1, stats.Asignados)
	assert.Equal(t, 1, stats.Entregados)
	assert.Equal(t, 2, stats.SinAsignar)
	assert.Equal(t, 1, stats.Devoluciones)
	assert.Equal(t, 0, stats.Reagendados)
}

func TestAggregatePaymentBucketsExcludeUnknownMethods(t *testing.T) {
	list := []models.Pedido{
		mkPedido("PED-1", func(p *models.Pedido) { p.MetodoPago = "Efectivo" }),
		mkPedido("PED-2", func(p *models.Pedido) { p.MetodoPago = "2pagos" }),
		mkPedido("PED-3", func(p *models.Pedido) { p.MetodoPago = "2 Pagos" }),
		mkPedido("PED-4", func(p *models.Pedido) { p.MetodoPago = "" }),
		mkPedido("PED-5", func(p *models.Pedido) { p.MetodoPago = "cheque" }),
	}
	stats := Aggregate(list)

	bucketTotal := 0
	for _, bucket := range stats.PorMetodoPago {
		bucketTotal += bucket.Count
	}
	// Unknown and empty methods land in no bucket at all.
	assert.Equal(t, 3, bucketTotal)
	assert.Equal(t, 1, stats.PorMetodoPago[enums.PaymentMethodEfectivo].Count)
	assert.Equal(t, 2, stats.PorMetodoPago[enums.PaymentMethodDosPagos].Count)
	_, hasTarjeta := stats.PorMetodoPago[enums.PaymentMethodTarjeta]
	assert.False(t, hasTarjeta)
}

func TestAggregateBucketCountsCoverListWhenAllMethodsKnown(t *testing.T) {
	list := sampleList()
	stats := Aggregate(list)

	bucketTotal := 0
	for _, bucket := range stats.PorMetodoPago {
		bucketTotal += bucket.Count
	}
	assert.Equal(t, len(list), bucketTotal)
}

func TestAggregateSumsValorTotal(t *testing.T) {
	list := []models.Pedido{
		mkPedido("PED-1", func(p *models.Pedido) {
			p.ValorTotal = decimal.NewFromFloat(1500.50)
			p.MetodoPago = "efectivo"
		}),
		mkPedido("PED-2", func(p *models.Pedido) {
			p.ValorTotal = decimal.NewFromFloat(2499.50)
			p.MetodoPago = "sinpe"
		}),
		mkPedido("PED-3", func(p *models.Pedido) {
			p.ValorTotal = decimal.NewFromInt(1000)
			p.MetodoPago = "efectivo"
		}),
	}
	stats := Aggregate(list)

	assert.True(t, stats.ValorTotal.Equal(decimal.NewFromInt(5000)), "got %s", stats.ValorTotal)
	efectivo := stats.PorMetodoPago[enums.PaymentMethodEfectivo]
	require.Equal(t, 2, efectivo.Count)
	assert.True(t, efectivo.Sum.Equal(decimal.NewFromFloat(2500.50)), "got %s", efectivo.Sum)
}

func TestAggregateEmptyList(t *testing.T) {
	stats := Aggregate(nil)
	assert.Zero(t, stats.Total)
	assert.True(t, stats.ValorTotal.IsZero())
	assert.Empty(t, stats.PorMetodoPago)
}
