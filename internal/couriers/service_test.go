package couriers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Magic-Stars-CR/magicstars-backend/internal/orders"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db/models"
	pkgerrors "github.com/Magic-Stars-CR/magicstars-backend/pkg/errors"
)

var (
	carlosID = uuid.MustParse("6f1f3f4a-0d7a-4a5e-9d25-3a1c1a2b3c4d")
	luisID   = uuid.MustParse("9b8e7d6c-5a4b-4c3d-8e2f-1a0b9c8d7e6f")
)

type stubCourierRepo struct {
	mensajeros map[string]models.Mensajero
}

func (s *stubCourierRepo) List(ctx context.Context, soloActivos bool) ([]models.Mensajero, error) {
	out := make([]models.Mensajero, 0, len(s.mensajeros))
	for _, mensajero := range s.mensajeros {
		if soloActivos && !mensajero.Activo {
			continue
		}
		out = append(out, mensajero)
	}
	return out, nil
}

func (s *stubCourierRepo) FindByID(ctx context.Context, id string) (*models.Mensajero, error) {
	mensajero, ok := s.mensajeros[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := mensajero
	return &out, nil
}

type stubPedidoLister struct {
	lastScope orders.Scope
	pedidos   []models.Pedido
}

func (s *stubPedidoLister) List(ctx context.Context, scope orders.Scope) ([]models.Pedido, error) {
	s.lastScope = scope
	return s.pedidos, nil
}

func newCourierService(t *testing.T, lister *stubPedidoLister) Service {
	t.Helper()
	repo := &stubCourierRepo{mensajeros: map[string]models.Mensajero{
		carlosID.String(): {ID: carlosID, Nombre: "Carlos", Activo: true},
		luisID.String():   {ID: luisID, Nombre: "Luis", Activo: true},
	}}
	svc, err := NewService(repo, lister)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestPedidosAsignadosScopesByCourierName(t *testing.T) {
	lister := &stubPedidoLister{pedidos: []models.Pedido{{ID: "PED-1"}}}
	svc := newCourierService(t, lister)

	pedidos, err := svc.PedidosAsignados(context.Background(), carlosID.String(), "")
	if err != nil {
		t.Fatalf("pedidos asignados: %v", err)
	}
	if len(pedidos) != 1 {
		t.Fatalf("expected 1 pedido, got %d", len(pedidos))
	}
	if lister.lastScope.Mensajero == nil || *lister.lastScope.Mensajero != "Carlos" {
		t.Fatalf("expected scope on Carlos, got %+v", lister.lastScope)
	}
}

func TestPedidosAsignadosAllowsOwnList(t *testing.T) {
	lister := &stubPedidoLister{}
	svc := newCourierService(t, lister)

	if _, err := svc.PedidosAsignados(context.Background(), carlosID.String(), "Carlos"); err != nil {
		t.Fatalf("own list rejected: %v", err)
	}
}

func TestPedidosAsignadosRejectsOtherCouriersList(t *testing.T) {
	lister := &stubPedidoLister{pedidos: []models.Pedido{{ID: "PED-2"}}}
	svc := newCourierService(t, lister)

	_, err := svc.PedidosAsignados(context.Background(), luisID.String(), "Carlos")
	if err == nil {
		t.Fatalf("expected forbidden error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected %s, got %v", pkgerrors.CodeForbidden, err)
	}
}

func TestPedidosAsignadosUnknownCourier(t *testing.T) {
	svc := newCourierService(t, &stubPedidoLister{})

	_, err := svc.PedidosAsignados(context.Background(), "m-404", "")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected %s, got %v", pkgerrors.CodeNotFound, err)
	}
}
