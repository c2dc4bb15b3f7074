package couriers

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Magic-Stars-CR/magicstars-backend/internal/orders"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db/models"
	pkgerrors "github.com/Magic-Stars-CR/magicstars-backend/pkg/errors"
)

// pedidoLister is the slice of the orders repository this service reads from.
type pedidoLister interface {
	List(ctx context.Context, scope orders.Scope) ([]models.Pedido, error)
}

// Service exposes the courier directory and per-courier order views.
type Service interface {
	List(ctx context.Context, soloActivos bool) ([]models.Mensajero, error)
	PedidosAsignados(ctx context.Context, mensajeroID, restrictTo string) ([]models.Pedido, error)
}

type service struct {
	repo    Repository
	pedidos pedidoLister
}

// NewService builds a couriers service.
func NewService(repo Repository, pedidos pedidoLister) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("couriers repository required")
	}
	if pedidos == nil {
		return nil, fmt.Errorf("pedidos lister required")
	}
	return &service{repo: repo, pedidos: pedidos}, nil
}

func (s *service) List(ctx context.Context, soloActivos bool) ([]models.Mensajero, error) {
	mensajeros, err := s.repo.List(ctx, soloActivos)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list mensajeros")
	}
	return mensajeros, nil
}

// PedidosAsignados returns the orders currently assigned to the courier.
// Assignment is tracked by courier name on the pedido row. A non-empty
// restrictTo (the token's mensajero claim) must match the resolved courier;
// mensajero tokens can only read their own pedidos.
func (s *service) PedidosAsignados(ctx context.Context, mensajeroID, restrictTo string) ([]models.Pedido, error) {
	mensajero, err := s.repo.FindByID(ctx, mensajeroID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("mensajero %s not found", mensajeroID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find mensajero")
	}
	if restrictTo != "" && restrictTo != mensajero.Nombre {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "mensajero mismatch")
	}

	pedidos, err := s.pedidos.List(ctx, orders.Scope{Mensajero: &mensajero.Nombre})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pedidos asignados")
	}
	return pedidos, nil
}
