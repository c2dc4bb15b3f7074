package orders

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db/models"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/enums"
)

func setupPedidosTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	pedidos := `
CREATE TABLE IF NOT EXISTS pedidos (
  id TEXT PRIMARY KEY,
  nombre_cliente TEXT,
  telefono TEXT,
  direccion TEXT,
  provincia TEXT,
  canton TEXT,
  distrito TEXT,
  valor_total NUMERIC NOT NULL DEFAULT 0,
  productos TEXT,
  metodo_pago TEXT,
  monto_efectivo NUMERIC,
  monto_sinpe NUMERIC,
  mensajero_asignado TEXT,
  mensajero_concretado TEXT,
  estado_entrega TEXT NOT NULL DEFAULT 'pendiente',
  fecha_entrega DATETIME,
  fecha_creacion DATETIME NOT NULL,
  tienda TEXT NOT NULL,
  nota_cliente TEXT,
  nota_asesor TEXT,
  link_ubicacion TEXT,
  confirmado INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(pedidos).Error)
	return db
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupPedidosTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	pedido := mkPedido("PED-1", func(p *models.Pedido) {
		p.ValorTotal = decimal.NewFromInt(15000)
	})
	require.NoError(t, repo.Create(ctx, &pedido))

	found, err := repo.FindByID(ctx, "PED-1")
	require.NoError(t, err)
	assert.Equal(t, "PED-1", found.ID)
	assert.True(t, found.ValorTotal.Equal(decimal.NewFromInt(15000)))

	_, err = repo.FindByID(ctx, "PED-404")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListScopes(t *testing.T) {
	db := setupPedidosTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	rows := []models.Pedido{
		mkPedido("PED-1", func(p *models.Pedido) {
			p.Tienda = "PARA MACHOS CR"
			p.MensajeroAsignado = strPtr("Carlos")
		}),
		mkPedido("PED-2", func(p *models.Pedido) {
			p.Tienda = "BEAUTY FANS"
		}),
		mkPedido("PED-3", func(p *models.Pedido) {
			p.Tienda = "PARA MACHOS CR"
			p.MensajeroAsignado = strPtr("Luis")
		}),
	}
	for i := range rows {
		require.NoError(t, repo.Create(ctx, &rows[i]))
	}

	all, err := repo.List(ctx, Scope{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	tienda := "PARA MACHOS CR"
	scoped, err := repo.List(ctx, Scope{Tienda: &tienda})
	require.NoError(t, err)
	assert.Len(t, scoped, 2)

	mensajero := "Luis"
	byCourier, err := repo.List(ctx, Scope{Mensajero: &mensajero})
	require.NoError(t, err)
	require.Len(t, byCourier, 1)
	assert.Equal(t, "PED-3", byCourier[0].ID)
}

func TestRepositoryListByTiendaAndDay(t *testing.T) {
	db := setupPedidosTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	inDay := mkPedido("PED-IN", func(p *models.Pedido) {
		p.FechaCreacion = time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)
	})
	nextDay := mkPedido("PED-OUT", func(p *models.Pedido) {
		p.FechaCreacion = time.Date(2024, 3, 16, 0, 0, 1, 0, time.UTC)
	})
	otherStore := mkPedido("PED-OTHER", func(p *models.Pedido) {
		p.Tienda = "BEAUTY FANS"
		p.FechaCreacion = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	})
	for _, pedido := range []models.Pedido{inDay, nextDay, otherStore} {
		row := pedido
		require.NoError(t, repo.Create(ctx, &row))
	}

	got, err := repo.ListByTiendaAndDay(ctx, "PARA MACHOS CR", day)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "PED-IN", got[0].ID)
}

func TestRepositoryUpdateColumns(t *testing.T) {
	db := setupPedidosTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	pedido := mkPedido("PED-1", func(p *models.Pedido) {
		p.NombreCliente = strPtr("María")
	})
	require.NoError(t, repo.Create(ctx, &pedido))

	err := repo.Update(ctx, "PED-1", map[string]any{
		"estado_entrega":     enums.DeliveryStatusEnRuta,
		"mensajero_asignado": "Carlos",
	})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, "PED-1")
	require.NoError(t, err)
	assert.Equal(t, enums.DeliveryStatusEnRuta, found.EstadoEntrega)
	require.NotNil(t, found.MensajeroAsignado)
	assert.Equal(t, "Carlos", *found.MensajeroAsignado)
	// Untouched columns survive.
	require.NotNil(t, found.NombreCliente)
	assert.Equal(t, "María", *found.NombreCliente)

	err = repo.Update(ctx, "PED-404", map[string]any{"estado_entrega": enums.DeliveryStatusEnRuta})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.NoError(t, repo.Update(ctx, "PED-1", nil))
}

func TestRepositoryDelete(t *testing.T) {
	db := setupPedidosTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	pedido := mkPedido("PED-1", nil)
	require.NoError(t, repo.Create(ctx, &pedido))

	require.NoError(t, repo.Delete(ctx, "PED-1"))
	assert.ErrorIs(t, repo.Delete(ctx, "PED-1"), gorm.ErrRecordNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
