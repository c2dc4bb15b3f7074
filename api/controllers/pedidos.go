package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Magic-Stars-CR/magicstars-backend/api/middleware"
	"github.com/Magic-Stars-CR/magicstars-backend/api/responses"
	"github.com/Magic-Stars-CR/magicstars-backend/api/validators"
	"github.com/Magic-Stars-CR/magicstars-backend/internal/orders"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/enums"
	pkgerrors "github.com/Magic-Stars-CR/magicstars-backend/pkg/errors"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/logger"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/pagination"
)

// actorFromContext builds the mutation actor from the auth claims.
func actorFromContext(r *http.Request) orders.Actor {
	role, _ := enums.ParseMemberRole(middleware.RoleFromContext(r.Context()))
	return orders.Actor{
		Usuario: middleware.UsuarioFromContext(r.Context()),
		Role:    role,
	}
}

// scopeFromContext narrows reads for tienda and mensajero tokens. Scope comes
// from the token, never from query params.
func scopeFromContext(r *http.Request) orders.Scope {
	var scope orders.Scope
	if tienda := middleware.TiendaFromContext(r.Context()); tienda != "" {
		scope.Tienda = &tienda
	}
	if mensajero := middleware.MensajeroFromContext(r.Context()); mensajero != "" {
		scope.Mensajero = &mensajero
	}
	return scope
}

// PedidosList serves the dashboard page: filters plus page/size in, one page
// of pedidos plus stats over the whole filtered set out.
func PedidosList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		size, err := validators.ParseQueryInt(r, "size", pagination.DefaultSize, 1, pagination.MaxSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseStatusFilter(validators.QueryString(r, "status"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
			return
		}
		dateMode, err := enums.ParseDateMode(validators.QueryString(r, "date_mode"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date mode"))
			return
		}

		input := orders.ListInput{
			Scope: scopeFromContext(r),
			Filter: orders.FilterOptions{
				Query:      validators.QueryString(r, "q"),
				Status:     status,
				Distrito:   validators.QueryString(r, "distrito"),
				Mensajero:  validators.QueryString(r, "mensajero"),
				Tienda:     validators.QueryString(r, "tienda"),
				MetodoPago: validators.QueryString(r, "metodo_pago"),
				Date: orders.DateFilter{
					Mode:         dateMode,
					SpecificDate: validators.QueryString(r, "fecha"),
					StartDate:    validators.QueryString(r, "fecha_inicio"),
					EndDate:      validators.QueryString(r, "fecha_fin"),
				},
			},
			Page: pagination.Params{Page: page, Size: size},
		}

		result, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func PedidoGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pedido, err := svc.Get(r.Context(), chi.URLParam(r, "pedidoId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pedido)
	}
}

type pedidoCreateRequest struct {
	NombreCliente *string         `json:"nombre_cliente,omitempty"`
	Telefono      *string         `json:"telefono,omitempty"`
	Direccion     *string         `json:"direccion,omitempty"`
	Provincia     *string         `json:"provincia,omitempty"`
	Canton        *string         `json:"canton,omitempty"`
	Distrito      *string         `json:"distrito,omitempty"`
	ValorTotal    decimal.Decimal `json:"valor_total"`
	Productos     string          `json:"productos" validate:"required"`
	MetodoPago    string          `json:"metodo_pago,omitempty"`
	Tienda        string          `json:"tienda" validate:"required"`
	FechaCreacion *time.Time      `json:"fecha_creacion,omitempty"`
	NotaCliente   *string         `json:"nota_cliente,omitempty"`
	NotaAsesor    *string         `json:"nota_asesor,omitempty"`
	LinkUbicacion *string         `json:"link_ubicacion,omitempty"`
}

func (req pedidoCreateRequest) toInput() orders.CreateInput {
	input := orders.CreateInput{
		NombreCliente: req.NombreCliente,
		Telefono:      req.Telefono,
		Direccion:     req.Direccion,
		Provincia:     req.Provincia,
		Canton:        req.Canton,
		Distrito:      req.Distrito,
		ValorTotal:    req.ValorTotal,
		Productos:     req.Productos,
		MetodoPago:    req.MetodoPago,
		Tienda:        req.Tienda,
		NotaCliente:   req.NotaCliente,
		NotaAsesor:    req.NotaAsesor,
		LinkUbicacion: req.LinkUbicacion,
	}
	if req.FechaCreacion != nil {
		input.FechaCreacion = *req.FechaCreacion
	}
	return input
}

func PedidoCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload pedidoCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// Tienda tokens can only create pedidos for their own store.
		if tienda := middleware.TiendaFromContext(r.Context()); tienda != "" && payload.Tienda != tienda {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "tienda mismatch"))
			return
		}

		pedido, err := svc.Create(r.Context(), payload.toInput(), actorFromContext(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, pedido)
	}
}

func PedidoPatch(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch orders.PedidoPatch
		if err := validators.DecodeJSONBody(r, &patch); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pedido, err := svc.Update(r.Context(), chi.URLParam(r, "pedidoId"), patch, actorFromContext(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pedido)
	}
}

type quickStatusRequest struct {
	Estado        string           `json:"estado" validate:"required"`
	MetodoPago    string           `json:"metodo_pago,omitempty"`
	MontoEfectivo *decimal.Decimal `json:"monto_efectivo,omitempty"`
	MontoSinpe    *decimal.Decimal `json:"monto_sinpe,omitempty"`
	Nota          *string          `json:"nota,omitempty"`
}

func PedidoQuickStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload quickStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		estado, err := enums.ParseDeliveryStatus(payload.Estado)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid estado"))
			return
		}

		pedido, err := svc.QuickStatus(r.Context(), orders.QuickStatusInput{
			ID:            chi.URLParam(r, "pedidoId"),
			Estado:        estado,
			MetodoPago:    payload.MetodoPago,
			MontoEfectivo: payload.MontoEfectivo,
			MontoSinpe:    payload.MontoSinpe,
			Nota:          payload.Nota,
		}, actorFromContext(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pedido)
	}
}

func PedidoConfirm(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pedido, err := svc.Confirm(r.Context(), chi.URLParam(r, "pedidoId"), actorFromContext(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pedido)
	}
}

type bulkUpdateRequest struct {
	Items []bulkUpdateItem `json:"items" validate:"required,min=1,dive"`
}

type bulkUpdateItem struct {
	ID    string             `json:"id" validate:"required"`
	Patch orders.PedidoPatch `json:"patch"`
}

func PedidosBulk(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload bulkUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]orders.BulkItem, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, orders.BulkItem{ID: item.ID, Patch: item.Patch})
		}

		result, err := svc.BulkUpdate(r.Context(), items, actorFromContext(r))
		if result == nil && err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		// Partial failures still return the per-item outcomes.
		responses.WriteSuccess(w, result)
	}
}

type pedidoDeleteRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func PedidoDelete(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload pedidoDeleteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "pedidoId"), payload.Reason, actorFromContext(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
