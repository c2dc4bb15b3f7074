package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Magic-Stars-CR/magicstars-backend/api/middleware"
	"github.com/Magic-Stars-CR/magicstars-backend/api/responses"
	"github.com/Magic-Stars-CR/magicstars-backend/api/validators"
	"github.com/Magic-Stars-CR/magicstars-backend/internal/couriers"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/logger"
)

func MensajerosList(svc couriers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		soloActivos := validators.QueryString(r, "activos") == "true"
		mensajeros, err := svc.List(r.Context(), soloActivos)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, mensajeros)
	}
}

// MensajeroPedidos serves the orders assigned to one courier. Mensajero
// tokens can only read their own list.
func MensajeroPedidos(svc couriers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		restricted := middleware.MensajeroFromContext(r.Context())
		pedidos, err := svc.PedidosAsignados(r.Context(), chi.URLParam(r, "mensajeroId"), restricted)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pedidos)
	}
}
