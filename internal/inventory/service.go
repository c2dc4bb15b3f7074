package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/Magic-Stars-CR/magicstars-backend/internal/mappings"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db/models"
	pkgerrors "github.com/Magic-Stars-CR/magicstars-backend/pkg/errors"
)

// CreateInput carries the fields accepted when adding a product.
type CreateInput struct {
	Nombre   string
	Cantidad int
	Tienda   string
}

// Service exposes catalog reads and writes.
type Service interface {
	List(ctx context.Context, tienda string) ([]models.ProductoInventario, error)
	Create(ctx context.Context, input CreateInput) (*models.ProductoInventario, error)
}

type service struct {
	repo Repository
}

// NewService builds an inventory service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, tienda string) ([]models.ProductoInventario, error) {
	productos, err := s.repo.List(ctx, tienda)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventario")
	}
	return productos, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.ProductoInventario, error) {
	nombre := strings.TrimSpace(input.Nombre)
	if nombre == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nombre required")
	}
	if input.Cantidad < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cantidad must be non-negative")
	}
	if strings.TrimSpace(input.Tienda) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tienda required")
	}

	producto := &models.ProductoInventario{
		Nombre:            nombre,
		NombreNormalizado: mappings.Normalize(nombre),
		Cantidad:          input.Cantidad,
		Tienda:            strings.TrimSpace(input.Tienda),
	}
	if err := s.repo.Create(ctx, producto); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("producto %q already exists", nombre))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create producto")
	}
	return producto, nil
}
