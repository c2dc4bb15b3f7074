package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Magic-Stars-CR/magicstars-backend/api/middleware"
	"github.com/Magic-Stars-CR/magicstars-backend/api/responses"
	"github.com/Magic-Stars-CR/magicstars-backend/api/validators"
	"github.com/Magic-Stars-CR/magicstars-backend/internal/settlements"
	"github.com/Magic-Stars-CR/magicstars-backend/internal/stores"
	pkgerrors "github.com/Magic-Stars-CR/magicstars-backend/pkg/errors"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/logger"
)

func TiendasList(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		soloActivas := validators.QueryString(r, "activas") == "true"
		tiendas, err := svc.List(r.Context(), soloActivas)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tiendas)
	}
}

// TiendaLiquidacion serves the daily settlement for one store. Tienda tokens
// can only read their own liquidación.
func TiendaLiquidacion(svc settlements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tienda := chi.URLParam(r, "tienda")
		if restricted := middleware.TiendaFromContext(r.Context()); restricted != "" && restricted != tienda {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "tienda mismatch"))
			return
		}

		liquidacion, err := svc.Liquidacion(r.Context(), tienda, validators.QueryString(r, "fecha"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, liquidacion)
	}
}
