package controllers

import (
	"net/http"

	"github.com/Magic-Stars-CR/magicstars-backend/api/middleware"
	"github.com/Magic-Stars-CR/magicstars-backend/api/responses"
	"github.com/Magic-Stars-CR/magicstars-backend/api/validators"
	"github.com/Magic-Stars-CR/magicstars-backend/internal/inventory"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/logger"
)

func InventarioList(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tienda := validators.QueryString(r, "tienda")
		if restricted := middleware.TiendaFromContext(r.Context()); restricted != "" {
			tienda = restricted
		}
		productos, err := svc.List(r.Context(), tienda)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, productos)
	}
}

type inventarioCreateRequest struct {
	Nombre   string `json:"nombre" validate:"required"`
	Cantidad int    `json:"cantidad" validate:"min=0"`
	Tienda   string `json:"tienda" validate:"required"`
}

func InventarioCreate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload inventarioCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		producto, err := svc.Create(r.Context(), inventory.CreateInput{
			Nombre:   payload.Nombre,
			Cantidad: payload.Cantidad,
			Tienda:   payload.Tienda,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, producto)
	}
}
