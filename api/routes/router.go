package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Magic-Stars-CR/magicstars-backend/api/controllers"
	"github.com/Magic-Stars-CR/magicstars-backend/api/middleware"
	"github.com/Magic-Stars-CR/magicstars-backend/internal/couriers"
	"github.com/Magic-Stars-CR/magicstars-backend/internal/inventory"
	"github.com/Magic-Stars-CR/magicstars-backend/internal/mappings"
	"github.com/Magic-Stars-CR/magicstars-backend/internal/orders"
	"github.com/Magic-Stars-CR/magicstars-backend/internal/settlements"
	"github.com/Magic-Stars-CR/magicstars-backend/internal/stores"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/config"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/enums"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/logger"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Orders      orders.Service
	OrdersRepo  orders.Repository
	Couriers    couriers.Service
	Stores      stores.Service
	Settlements settlements.Service
	Inventory   inventory.Service
	Mappings    mappings.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	healthDeps map[string]controllers.Pinger,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	admin := string(enums.MemberRoleAdmin)
	asesor := string(enums.MemberRoleAsesor)
	mensajero := string(enums.MemberRoleMensajero)
	tienda := string(enums.MemberRoleTienda)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, healthDeps))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/pedidos", func(r chi.Router) {
			r.Get("/", controllers.PedidosList(svcs.Orders, logg))
			r.With(middleware.RequireAnyRole(logg, admin, asesor, tienda)).
				Post("/", controllers.PedidoCreate(svcs.Orders, logg))
			r.With(middleware.RequireAnyRole(logg, admin, asesor)).
				Post("/bulk", controllers.PedidosBulk(svcs.Orders, logg))

			r.Route("/{pedidoId}", func(r chi.Router) {
				r.Get("/", controllers.PedidoGet(svcs.Orders, logg))
				r.With(middleware.RequireAnyRole(logg, admin, asesor)).
					Patch("/", controllers.PedidoPatch(svcs.Orders, logg))
				r.With(middleware.RequireAnyRole(logg, admin, asesor, mensajero)).
					Post("/estado", controllers.PedidoQuickStatus(svcs.Orders, logg))
				r.With(middleware.RequireAnyRole(logg, admin, asesor)).
					Post("/confirmar", controllers.PedidoConfirm(svcs.Orders, logg))
				r.With(middleware.RequireRole(admin, logg)).
					Delete("/", controllers.PedidoDelete(svcs.Orders, logg))
			})
		})

		r.Route("/mensajeros", func(r chi.Router) {
			r.With(middleware.RequireAnyRole(logg, admin, asesor)).
				Get("/", controllers.MensajerosList(svcs.Couriers, logg))
			r.With(middleware.RequireAnyRole(logg, admin, asesor, mensajero)).
				Get("/{mensajeroId}/pedidos", controllers.MensajeroPedidos(svcs.Couriers, logg))
		})

		r.Route("/tiendas", func(r chi.Router) {
			r.With(middleware.RequireAnyRole(logg, admin, asesor)).
				Get("/", controllers.TiendasList(svcs.Stores, logg))
			r.With(middleware.RequireAnyRole(logg, admin, asesor, tienda)).
				Get("/{tienda}/liquidacion", controllers.TiendaLiquidacion(svcs.Settlements, logg))
		})

		r.Route("/inventario", func(r chi.Router) {
			r.With(middleware.RequireAnyRole(logg, admin, asesor, tienda)).
				Get("/", controllers.InventarioList(svcs.Inventory, logg))
			r.With(middleware.RequireAnyRole(logg, admin, asesor)).
				Post("/", controllers.InventarioCreate(svcs.Inventory, logg))
		})

		r.Route("/mapeos", func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg, admin, asesor))
			r.Get("/pendientes", controllers.MapeosPendientes(svcs.Mappings, svcs.OrdersRepo, logg))
			r.Post("/", controllers.MapeoResolve(svcs.Mappings, logg))
			r.Get("/combos", controllers.CombosList(svcs.Mappings, logg))
			r.Post("/combos", controllers.ComboCreate(svcs.Mappings, logg))
		})
	})

	return r
}
