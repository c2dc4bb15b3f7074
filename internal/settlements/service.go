package settlements

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Magic-Stars-CR/magicstars-backend/internal/orders"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db/models"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/enums"
	pkgerrors "github.com/Magic-Stars-CR/magicstars-backend/pkg/errors"
)

const fechaLayout = "2006-01-02"

// dayLister is the slice of the orders repository the settlement reads from.
type dayLister interface {
	ListByTiendaAndDay(ctx context.Context, tienda string, day time.Time) ([]models.Pedido, error)
}

// storeFinder resolves store names against the directory.
type storeFinder interface {
	FindByNombre(ctx context.Context, nombre string) (*models.Tienda, error)
}

// Liquidacion is the daily settlement for one store: the standard dashboard
// stats over that day's pedidos plus the collected money split by channel.
// Collected totals only count concretized deliveries; for dual payments the
// split comes from the recorded sub-amounts.
type Liquidacion struct {
	Tienda         string          `json:"tienda"`
	Fecha          string          `json:"fecha"`
	Stats          orders.Stats    `json:"stats"`
	TotalRecaudado decimal.Decimal `json:"total_recaudado"`
	TotalEfectivo  decimal.Decimal `json:"total_efectivo"`
	TotalSinpe     decimal.Decimal `json:"total_sinpe"`
	PedidosDelDia  []models.Pedido `json:"pedidos_del_dia"`
}

// Service computes daily per-store settlements.
type Service interface {
	Liquidacion(ctx context.Context, tienda, fecha string) (*Liquidacion, error)
}

type service struct {
	pedidos dayLister
	tiendas storeFinder
}

// NewService builds a settlements service.
func NewService(pedidos dayLister, tiendas storeFinder) (Service, error) {
	if pedidos == nil {
		return nil, fmt.Errorf("pedidos lister required")
	}
	if tiendas == nil {
		return nil, fmt.Errorf("tiendas finder required")
	}
	return &service{pedidos: pedidos, tiendas: tiendas}, nil
}

func (s *service) Liquidacion(ctx context.Context, tienda, fecha string) (*Liquidacion, error) {
	if tienda == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tienda required")
	}
	day, err := time.Parse(fechaLayout, fecha)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("fecha %q must be YYYY-MM-DD", fecha))
	}

	if _, err := s.tiendas.FindByNombre(ctx, tienda); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("tienda %q not found", tienda))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find tienda")
	}

	pedidos, err := s.pedidos.ListByTiendaAndDay(ctx, tienda, day)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pedidos del dia")
	}

	liquidacion := &Liquidacion{
		Tienda:         tienda,
		Fecha:          day.Format(fechaLayout),
		Stats:          orders.Aggregate(pedidos),
		TotalRecaudado: decimal.Zero,
		TotalEfectivo:  decimal.Zero,
		TotalSinpe:     decimal.Zero,
		PedidosDelDia:  pedidos,
	}

	for _, pedido := range pedidos {
		if !pedido.Concretado() {
			continue
		}
		liquidacion.TotalRecaudado = liquidacion.TotalRecaudado.Add(pedido.ValorTotal)

		method, ok := enums.NormalizePaymentMethod(pedido.MetodoPago)
		if !ok {
			continue
		}
		switch method {
		case enums.PaymentMethodEfectivo:
			liquidacion.TotalEfectivo = liquidacion.TotalEfectivo.Add(pedido.ValorTotal)
		case enums.PaymentMethodSinpe, enums.PaymentMethodTarjeta:
			liquidacion.TotalSinpe = liquidacion.TotalSinpe.Add(pedido.ValorTotal)
		case enums.PaymentMethodDosPagos:
			if pedido.MontoEfectivo != nil {
				liquidacion.TotalEfectivo = liquidacion.TotalEfectivo.Add(*pedido.MontoEfectivo)
			}
			if pedido.MontoSinpe != nil {
				liquidacion.TotalSinpe = liquidacion.TotalSinpe.Add(*pedido.MontoSinpe)
			}
		}
	}
	return liquidacion, nil
}
