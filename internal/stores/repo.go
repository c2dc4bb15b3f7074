package stores

import (
	"context"

	"gorm.io/gorm"

	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db/models"
)

// Repository defines persistence operations for the tiendas directory.
type Repository interface {
	List(ctx context.Context, soloActivas bool) ([]models.Tienda, error)
	FindByNombre(ctx context.Context, nombre string) (*models.Tienda, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a stores repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, soloActivas bool) ([]models.Tienda, error) {
	query := r.db.WithContext(ctx).Model(&models.Tienda{})
	if soloActivas {
		query = query.Where("activa = ?", true)
	}
	var tiendas []models.Tienda
	err := query.Order("nombre ASC").Find(&tiendas).Error
	return tiendas, err
}

func (r *repository) FindByNombre(ctx context.Context, nombre string) (*models.Tienda, error) {
	var tienda models.Tienda
	err := r.db.WithContext(ctx).Where("nombre = ?", nombre).First(&tienda).Error
	if err != nil {
		return nil, err
	}
	return &tienda, nil
}
