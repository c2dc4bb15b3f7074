package couriers

import (
	"context"

	"gorm.io/gorm"

	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db/models"
)

// Repository defines persistence operations for the mensajeros directory.
type Repository interface {
	List(ctx context.Context, soloActivos bool) ([]models.Mensajero, error)
	FindByID(ctx context.Context, id string) (*models.Mensajero, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a couriers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, soloActivos bool) ([]models.Mensajero, error) {
	query := r.db.WithContext(ctx).Model(&models.Mensajero{})
	if soloActivos {
		query = query.Where("activo = ?", true)
	}
	var mensajeros []models.Mensajero
	err := query.Order("nombre ASC").Find(&mensajeros).Error
	return mensajeros, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*models.Mensajero, error) {
	var mensajero models.Mensajero
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&mensajero).Error
	if err != nil {
		return nil, err
	}
	return &mensajero, nil
}
