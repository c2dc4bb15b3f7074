package controllers

import (
	"context"
	"net/http"

	"github.com/Magic-Stars-CR/magicstars-backend/api/responses"
	"github.com/Magic-Stars-CR/magicstars-backend/api/validators"
	"github.com/Magic-Stars-CR/magicstars-backend/internal/mappings"
	"github.com/Magic-Stars-CR/magicstars-backend/internal/orders"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db/models"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/logger"
)

// pedidosLister feeds the unmapped-product detector with the current orders.
type pedidosLister interface {
	List(ctx context.Context, scope orders.Scope) ([]models.Pedido, error)
}

// MapeosPendientes runs detection over the full pedido set and returns the
// unmapped candidates.
func MapeosPendientes(svc mappings.Service, pedidos pedidosLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := pedidos.List(r.Context(), orders.Scope{})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		candidates, err := svc.DetectUnmapped(r.Context(), rows)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, candidates)
	}
}

type resolveRequest struct {
	Nombre        string             `json:"nombre" validate:"required"`
	Action        string             `json:"action" validate:"required,oneof=map_existing create_product create_combo"`
	Producto      string             `json:"producto,omitempty"`
	Cantidad      int                `json:"cantidad,omitempty" validate:"min=0"`
	NuevoProducto *nuevoProductoBody `json:"nuevo_producto,omitempty"`
	Combo         *comboSpecBody     `json:"combo,omitempty"`
}

type nuevoProductoBody struct {
	Nombre   string `json:"nombre" validate:"required"`
	Cantidad int    `json:"cantidad" validate:"min=0"`
	Tienda   string `json:"tienda" validate:"required"`
}

type comboSpecBody struct {
	Nombre string          `json:"nombre" validate:"required"`
	Items  []comboItemBody `json:"items" validate:"required,min=1,dive"`
}

type comboItemBody struct {
	Producto string `json:"producto" validate:"required"`
	Cantidad int    `json:"cantidad" validate:"required,min=1"`
}

func (req resolveRequest) toInput() mappings.ResolveInput {
	input := mappings.ResolveInput{
		Nombre:   req.Nombre,
		Action:   mappings.ResolveAction(req.Action),
		Producto: req.Producto,
		Cantidad: req.Cantidad,
	}
	if req.NuevoProducto != nil {
		input.NuevoProducto = &mappings.NuevoProducto{
			Nombre:   req.NuevoProducto.Nombre,
			Cantidad: req.NuevoProducto.Cantidad,
			Tienda:   req.NuevoProducto.Tienda,
		}
	}
	if req.Combo != nil {
		input.Combo = req.Combo.toSpec()
	}
	return input
}

func (body comboSpecBody) toSpec() *mappings.ComboSpec {
	spec := &mappings.ComboSpec{Nombre: body.Nombre}
	for _, item := range body.Items {
		spec.Items = append(spec.Items, mappings.ComboItem{
			Producto: item.Producto,
			Cantidad: item.Cantidad,
		})
	}
	return spec
}

func MapeoResolve(svc mappings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload resolveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mapping, err := svc.Resolve(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, mapping)
	}
}

func CombosList(svc mappings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		combos, err := svc.ListCombos(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, combos)
	}
}

func ComboCreate(svc mappings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload comboSpecBody
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		combo, err := svc.CreateCombo(r.Context(), *payload.toSpec())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, combo)
	}
}
