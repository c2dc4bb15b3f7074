package orders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db/models"
)

// Scope narrows repository reads for role-restricted views. Nil fields mean
// no restriction.
type Scope struct {
	Tienda    *string
	Mensajero *string
}

// Key returns a stable identifier for the scope. Pedido sets loaded under
// different scopes must never share a cache entry.
func (s Scope) Key() string {
	tienda, mensajero := "*", "*"
	if s.Tienda != nil {
		tienda = *s.Tienda
	}
	if s.Mensajero != nil {
		mensajero = *s.Mensajero
	}
	return "tienda=" + tienda + "|mensajero=" + mensajero
}

// Repository defines persistence operations for the pedidos table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, pedido *models.Pedido) error
	FindByID(ctx context.Context, id string) (*models.Pedido, error)
	List(ctx context.Context, scope Scope) ([]models.Pedido, error)
	ListByTiendaAndDay(ctx context.Context, tienda string, day time.Time) ([]models.Pedido, error)
	Update(ctx context.Context, id string, updates map[string]any) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
