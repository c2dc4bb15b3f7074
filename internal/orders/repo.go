package orders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a pedidos repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, pedido *models.Pedido) error {
	return r.db.WithContext(ctx).Create(pedido).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*models.Pedido, error) {
	var pedido models.Pedido
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&pedido).Error
	if err != nil {
		return nil, err
	}
	return &pedido, nil
}

func (r *repository) List(ctx context.Context, scope Scope) ([]models.Pedido, error) {
	query := r.db.WithContext(ctx).Model(&models.Pedido{})
	if scope.Tienda != nil {
		query = query.Where("tienda = ?", *scope.Tienda)
	}
	if scope.Mensajero != nil {
		query = query.Where("mensajero_asignado = ?", *scope.Mensajero)
	}
	var pedidos []models.Pedido
	err := query.
		Order("fecha_creacion DESC").
		Order("id ASC").
		Find(&pedidos).Error
	return pedidos, err
}

func (r *repository) ListByTiendaAndDay(ctx context.Context, tienda string, day time.Time) ([]models.Pedido, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	var pedidos []models.Pedido
	err := r.db.WithContext(ctx).
		Where("tienda = ?", tienda).
		Where("fecha_creacion >= ? AND fecha_creacion < ?", start, end).
		Order("fecha_creacion ASC").
		Find(&pedidos).Error
	return pedidos, err
}

func (r *repository) Update(ctx context.Context, id string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.Pedido{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Pedido{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Pedido{}).Count(&count).Error
	return count, err
}
