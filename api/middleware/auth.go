package middleware

import (
	"net/http"
	"strings"

	"github.com/Magic-Stars-CR/magicstars-backend/api/responses"
	pkgauth "github.com/Magic-Stars-CR/magicstars-backend/pkg/auth"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/config"
	pkgerrors "github.com/Magic-Stars-CR/magicstars-backend/pkg/errors"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// claims: actor name, role and the tienda/mensajero restriction when present.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithUsuario(r.Context(), claims.Usuario)
			ctx = WithRole(ctx, string(claims.Role))
			if claims.Tienda != nil {
				ctx = WithTienda(ctx, *claims.Tienda)
			}
			if claims.Mensajero != nil {
				ctx = WithMensajero(ctx, *claims.Mensajero)
			}

			if logg != nil {
				ctx = logg.WithActor(ctx, claims.Usuario)
				ctx = logg.WithActorRole(ctx, string(claims.Role))
				if claims.Tienda != nil {
					ctx = logg.WithTienda(ctx, *claims.Tienda)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
