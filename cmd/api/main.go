package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/Magic-Stars-CR/magicstars-backend/api/controllers"
	"github.com/Magic-Stars-CR/magicstars-backend/api/routes"
	"github.com/Magic-Stars-CR/magicstars-backend/internal/couriers"
	"github.com/Magic-Stars-CR/magicstars-backend/internal/inventory"
	"github.com/Magic-Stars-CR/magicstars-backend/internal/mappings"
	"github.com/Magic-Stars-CR/magicstars-backend/internal/orders"
	"github.com/Magic-Stars-CR/magicstars-backend/internal/settlements"
	"github.com/Magic-Stars-CR/magicstars-backend/internal/stores"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/config"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/env"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/logger"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/migrate"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/redis"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/webhook"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	webhookService := webhook.NewService(webhook.NewRepository(dbClient.DB()), logg)

	ordersRepo := orders.NewRepository(dbClient.DB())
	ordersService, err := orders.NewService(ordersRepo, dbClient, webhookService)
	if err != nil {
		logg.Error(context.Background(), "failed to create pedidos service", err)
		os.Exit(1)
	}

	couriersService, err := couriers.NewService(couriers.NewRepository(dbClient.DB()), ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create mensajeros service", err)
		os.Exit(1)
	}

	storesRepo := stores.NewRepository(dbClient.DB())
	storesService, err := stores.NewService(storesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create tiendas service", err)
		os.Exit(1)
	}

	settlementsService, err := settlements.NewService(ordersRepo, storesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create liquidacion service", err)
		os.Exit(1)
	}

	inventoryRepo := inventory.NewRepository(dbClient.DB())
	inventoryService, err := inventory.NewService(inventoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventario service", err)
		os.Exit(1)
	}

	mappingsService, err := mappings.NewService(mappings.NewRedisRepository(redisClient), inventoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create mapeos service", err)
		os.Exit(1)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, redisClient,
			map[string]controllers.Pinger{
				"database": dbClient,
				"redis":    redisClient,
			},
			routes.Services{
				Orders:      ordersService,
				OrdersRepo:  ordersRepo,
				Couriers:    couriersService,
				Stores:      storesService,
				Settlements: settlementsService,
				Inventory:   inventoryService,
				Mappings:    mappingsService,
			}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
