package stores

import (
	"context"
	"fmt"

	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db/models"
	pkgerrors "github.com/Magic-Stars-CR/magicstars-backend/pkg/errors"
)

// Service exposes the store directory.
type Service interface {
	List(ctx context.Context, soloActivas bool) ([]models.Tienda, error)
}

type service struct {
	repo Repository
}

// NewService builds a stores service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stores repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, soloActivas bool) ([]models.Tienda, error) {
	tiendas, err := s.repo.List(ctx, soloActivas)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tiendas")
	}
	return tiendas, nil
}
