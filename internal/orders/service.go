package orders

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db/models"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/enums"
	pkgerrors "github.com/Magic-Stars-CR/magicstars-backend/pkg/errors"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/pagination"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/webhook"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type webhookEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event webhook.DomainEvent) error
}

// Service defines pedido-level operations on top of the repository.
type Service interface {
	List(ctx context.Context, input ListInput) (*ListResult, error)
	Get(ctx context.Context, id string) (*models.Pedido, error)
	Create(ctx context.Context, input CreateInput, actor Actor) (*models.Pedido, error)
	Update(ctx context.Context, id string, patch PedidoPatch, actor Actor) (*models.Pedido, error)
	QuickStatus(ctx context.Context, input QuickStatusInput, actor Actor) (*models.Pedido, error)
	BulkUpdate(ctx context.Context, items []BulkItem, actor Actor) (*BulkResult, error)
	Confirm(ctx context.Context, id string, actor Actor) (*models.Pedido, error)
	Delete(ctx context.Context, id, reason string, actor Actor) error
}

type service struct {
	repo      Repository
	tx        txRunner
	webhooks  webhookEmitter
	snapshots *SnapshotSet
}

// NewService builds a pedidos service with the required dependencies.
func NewService(repo Repository, tx txRunner, webhooks webhookEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pedidos repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if webhooks == nil {
		return nil, fmt.Errorf("webhook emitter required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		webhooks:  webhooks,
		snapshots: NewSnapshotSet(),
	}, nil
}

// List loads the scoped pedido set, filters and aggregates it, and returns
// one page. Each scope refreshes through its own snapshot generation counter,
// so a slow older load can never overwrite a fresher one and a scoped request
// is never served rows loaded for a different scope. On load failure the
// previous snapshot stays intact.
func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	snap := s.snapshots.For(input.Scope.Key())
	generation := snap.Begin()
	rows, err := s.repo.List(ctx, input.Scope)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pedidos")
	}
	if !snap.Complete(generation, rows) {
		rows = snap.Pedidos()
	}

	filtered := Filter(rows, input.Filter)
	stats := Aggregate(filtered)
	page, meta := pagination.Slice(filtered, input.Page)

	return &ListResult{
		Pedidos: page,
		Meta:    meta,
		Stats:   stats,
	}, nil
}

func (s *service) Get(ctx context.Context, id string) (*models.Pedido, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pedido id required")
	}
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pedido not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pedido")
	}
	return pedido, nil
}

func (s *service) Create(ctx context.Context, input CreateInput, actor Actor) (*models.Pedido, error) {
	if strings.TrimSpace(input.Tienda) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tienda required")
	}
	if input.ValorTotal.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valor_total must be non-negative")
	}
	if input.MetodoPago != "" {
		if _, ok := enums.NormalizePaymentMethod(input.MetodoPago); !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown metodo_pago %q", input.MetodoPago))
		}
	}
	if err := validateLink(input.LinkUbicacion); err != nil {
		return nil, err
	}

	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = newPedidoID()
	}
	created := time.Now()
	if !input.FechaCreacion.IsZero() {
		created = input.FechaCreacion
	}

	pedido := &models.Pedido{
		ID:            id,
		NombreCliente: input.NombreCliente,
		Telefono:      input.Telefono,
		Direccion:     input.Direccion,
		Provincia:     input.Provincia,
		Canton:        input.Canton,
		Distrito:      input.Distrito,
		ValorTotal:    input.ValorTotal,
		Productos:     input.Productos,
		MetodoPago:    input.MetodoPago,
		EstadoEntrega: enums.DeliveryStatusPendiente,
		FechaCreacion: created,
		Tienda:        input.Tienda,
		NotaCliente:   input.NotaCliente,
		NotaAsesor:    input.NotaAsesor,
		LinkUbicacion: input.LinkUbicacion,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, pedido); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create pedido")
		}
		return s.emit(ctx, tx, enums.EventPedidoCreated, *pedido, actor, "pedido creado")
	})
	if err != nil {
		return nil, err
	}
	return pedido, nil
}

// Update applies a merge patch: fields absent from the patch keep their
// previous values. The snapshot is patched only after the commit succeeds.
func (s *service) Update(ctx context.Context, id string, patch PedidoPatch, actor Actor) (*models.Pedido, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pedido id required")
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	updates := patch.Updates()
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "empty patch")
	}

	var updated models.Pedido
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		pedido, err := repo.FindByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "pedido not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pedido")
		}
		patch.Apply(pedido)
		if err := repo.Update(ctx, id, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update pedido")
		}
		updated = *pedido
		return s.emit(ctx, tx, enums.EventPedidoUpdated, updated, actor, describeUpdates(updates))
	})
	if err != nil {
		return nil, err
	}
	s.snapshots.Patch(updated)
	return &updated, nil
}

// QuickStatus is the table-row status shortcut. Moving to entregado requires
// a payment method (dual payment also requires both sub-amounts) and stamps
// mensajero_concretado with the assigned courier, falling back to the acting
// user. There is no terminal-state lock: entregado can be re-opened, which
// clears mensajero_concretado and fecha_entrega.
func (s *service) QuickStatus(ctx context.Context, input QuickStatusInput, actor Actor) (*models.Pedido, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pedido id required")
	}
	if !input.Estado.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid estado %q", input.Estado))
	}

	patch := PedidoPatch{EstadoEntrega: &input.Estado}
	if input.Nota != nil {
		patch.NotaAsesor = input.Nota
	}

	if input.Estado == enums.DeliveryStatusEntregado {
		method, ok := enums.NormalizePaymentMethod(input.MetodoPago)
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "metodo_pago required to mark entregado")
		}
		methodStr := method.String()
		patch.MetodoPago = &methodStr
		if method == enums.PaymentMethodDosPagos {
			if input.MontoEfectivo == nil || input.MontoSinpe == nil {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "dual payment requires monto_efectivo and monto_sinpe")
			}
			if input.MontoEfectivo.IsNegative() || input.MontoSinpe.IsNegative() {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amounts must be non-negative")
			}
			patch.MontoEfectivo = input.MontoEfectivo
			patch.MontoSinpe = input.MontoSinpe
		}
	}

	var updated models.Pedido
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		pedido, err := repo.FindByID(ctx, input.ID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "pedido not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pedido")
		}

		if input.Estado == enums.DeliveryStatusEntregado {
			concretado := actor.Usuario
			if pedido.TieneMensajero() {
				concretado = *pedido.MensajeroAsignado
			}
			patch.MensajeroConcretado = &concretado
			delivered := time.Now()
			patch.FechaEntrega = &delivered
		}

		cambio := fmt.Sprintf("estado_entrega: %s -> %s", pedido.EstadoEntrega, input.Estado)
		patch.Apply(pedido)
		updates := patch.Updates()

		// Re-opening a delivered pedido clears the concretization so the
		// stored status and the courier-derived view cannot disagree.
		if input.Estado != enums.DeliveryStatusEntregado &&
			(pedido.MensajeroConcretado != nil || pedido.FechaEntrega != nil) {
			pedido.MensajeroConcretado = nil
			pedido.FechaEntrega = nil
			updates["mensajero_concretado"] = nil
			updates["fecha_entrega"] = nil
		}

		if err := repo.Update(ctx, input.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update estado")
		}
		updated = *pedido
		return s.emit(ctx, tx, enums.EventPedidoStatusChanged, updated, actor, cambio)
	})
	if err != nil {
		return nil, err
	}
	s.snapshots.Patch(updated)
	return &updated, nil
}

// BulkUpdate applies the pending patches sequentially, one transaction per
// pedido. A failure stops nothing and rolls back nothing already applied; the
// combined error reports every failed id.
func (s *service) BulkUpdate(ctx context.Context, items []BulkItem, actor Actor) (*BulkResult, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no items to update")
	}

	result := &BulkResult{Results: make([]BulkItemResult, 0, len(items))}
	var errs error
	for _, item := range items {
		if _, err := s.Update(ctx, item.ID, item.Patch, actor); err != nil {
			msg := err.Error()
			result.Results = append(result.Results, BulkItemResult{ID: item.ID, OK: false, Error: &msg})
			result.Failed++
			errs = multierr.Append(errs, fmt.Errorf("pedido %s: %w", item.ID, err))
			continue
		}
		result.Results = append(result.Results, BulkItemResult{ID: item.ID, OK: true})
		result.Applied++
	}
	return result, errs
}

func (s *service) Confirm(ctx context.Context, id string, actor Actor) (*models.Pedido, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pedido id required")
	}

	var updated models.Pedido
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		pedido, err := repo.FindByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "pedido not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pedido")
		}
		if pedido.Confirmado {
			updated = *pedido
			return nil
		}
		pedido.Confirmado = true
		if err := repo.Update(ctx, id, map[string]any{"confirmado": true}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm pedido")
		}
		updated = *pedido
		return s.emit(ctx, tx, enums.EventPedidoConfirmed, updated, actor, "pedido confirmado")
	})
	if err != nil {
		return nil, err
	}
	s.snapshots.Patch(updated)
	return &updated, nil
}

func (s *service) Delete(ctx context.Context, id, reason string, actor Actor) error {
	if actor.Role != enums.MemberRoleAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only admins can delete pedidos")
	}
	if strings.TrimSpace(id) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "pedido id required")
	}
	if strings.TrimSpace(reason) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "deletion reason required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		pedido, err := repo.FindByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "pedido not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pedido")
		}
		if err := s.emit(ctx, tx, enums.EventPedidoDeleted, *pedido, actor, "eliminado: "+reason); err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete pedido")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.snapshots.Remove(id)
	return nil
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, eventType enums.WebhookEventType, pedido models.Pedido, actor Actor, cambio string) error {
	event := webhook.DomainEvent{
		EventType:   eventType,
		AggregateID: pedido.ID,
		Actor:       &webhook.ActorRef{Usuario: actor.Usuario, Role: actor.Role.String()},
		Data:        webhook.NewPedidoPayload(pedido, actor.Usuario, cambio),
	}
	if err := s.webhooks.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue webhook event")
	}
	return nil
}

func validatePatch(patch PedidoPatch) error {
	if patch.ValorTotal != nil && patch.ValorTotal.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "valor_total must be non-negative")
	}
	if patch.MetodoPago != nil && *patch.MetodoPago != "" {
		if _, ok := enums.NormalizePaymentMethod(*patch.MetodoPago); !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown metodo_pago %q", *patch.MetodoPago))
		}
	}
	if patch.EstadoEntrega != nil && !patch.EstadoEntrega.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid estado %q", *patch.EstadoEntrega))
	}
	if patch.MontoEfectivo != nil && patch.MontoEfectivo.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "monto_efectivo must be non-negative")
	}
	if patch.MontoSinpe != nil && patch.MontoSinpe.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "monto_sinpe must be non-negative")
	}
	return validateLink(patch.LinkUbicacion)
}

func validateLink(link *string) error {
	if link == nil || *link == "" {
		return nil
	}
	parsed, err := url.ParseRequestURI(*link)
	if err != nil || parsed.Host == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "link_ubicacion must be a valid URL")
	}
	return nil
}

func describeUpdates(updates map[string]any) string {
	cols := make([]string, 0, len(updates))
	for col := range updates {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return "campos: " + strings.Join(cols, ", ")
}

func newPedidoID() string {
	return "PED-" + strings.ToUpper(uuid.NewString()[:8])
}
