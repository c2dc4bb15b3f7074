package inventory

import (
	"context"

	"gorm.io/gorm"

	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db/models"
)

// Repository defines persistence operations for the inventory catalog. It
// also backs the unmapped-product resolver, which only needs the normalized
// name surface.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context, tienda string) ([]models.ProductoInventario, error)
	ListNombresNormalizados(ctx context.Context) ([]string, error)
	FindByNombreNormalizado(ctx context.Context, nombre string) (*models.ProductoInventario, error)
	Create(ctx context.Context, producto *models.ProductoInventario) error
	UpdateCantidad(ctx context.Context, id string, cantidad int) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context, tienda string) ([]models.ProductoInventario, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductoInventario{})
	if tienda != "" {
		query = query.Where("tienda = ?", tienda)
	}
	var productos []models.ProductoInventario
	err := query.Order("nombre ASC").Find(&productos).Error
	return productos, err
}

func (r *repository) ListNombresNormalizados(ctx context.Context) ([]string, error) {
	var nombres []string
	err := r.db.WithContext(ctx).
		Model(&models.ProductoInventario{}).
		Pluck("nombre_normalizado", &nombres).Error
	return nombres, err
}

func (r *repository) FindByNombreNormalizado(ctx context.Context, nombre string) (*models.ProductoInventario, error) {
	var producto models.ProductoInventario
	err := r.db.WithContext(ctx).
		Where("nombre_normalizado = ?", nombre).
		First(&producto).Error
	if err != nil {
		return nil, err
	}
	return &producto, nil
}

func (r *repository) Create(ctx context.Context, producto *models.ProductoInventario) error {
	return r.db.WithContext(ctx).Create(producto).Error
}

func (r *repository) UpdateCantidad(ctx context.Context, id string, cantidad int) error {
	res := r.db.WithContext(ctx).
		Model(&models.ProductoInventario{}).
		Where("id = ?", id).
		Update("cantidad", cantidad)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
