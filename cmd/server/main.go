package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reclaimhq/lostfound-system/internal/api"
	apimiddleware "github.com/reclaimhq/lostfound-system/internal/api/middleware"
	"github.com/reclaimhq/lostfound-system/internal/core/ports"
	"github.com/reclaimhq/lostfound-system/internal/core/service"
	"github.com/reclaimhq/lostfound-system/internal/infrastructure/config"
	"github.com/reclaimhq/lostfound-system/internal/infrastructure/db/memory"
	mongodb "github.com/reclaimhq/lostfound-system/internal/infrastructure/db/mongo"
	redisdb "github.com/reclaimhq/lostfound-system/internal/infrastructure/db/redis"
	"github.com/reclaimhq/lostfound-system/internal/infrastructure/storage"
	"github.com/reclaimhq/lostfound-system/pkg/logger"
)

// @title Lost & Found API
// @version 1.0
// @description Community lost & found service: post lost or found items,
// @description browse and search listings, and get notified when new lost
// @description items are reported.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := api.Dependencies{
		JWTSecret: cfg.JWTSecret,
		Logger:    log,
	}

	var (
		itemRepo         ports.ItemRepository
		userRepo         ports.UserRepository
		notificationRepo ports.NotificationRepository
		svcRevoker       service.TokenRevoker
		mwRevoker        apimiddleware.TokenRevoker
	)

	switch cfg.StoreBackend {
	case "mongo":
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to MongoDB")
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				log.Warn().Err(err).Msg("error disconnecting from MongoDB")
			}
		}()

		items := mongodb.NewItemRepository(db)
		users := mongodb.NewUserRepository(db)
		notifications := mongodb.NewNotificationRepository(db)
		for _, ensure := range []func(context.Context) error{
			items.EnsureIndexes, users.EnsureIndexes, notifications.EnsureIndexes,
		} {
			if err := ensure(ctx); err != nil {
				log.Fatal().Err(err).Msg("failed to ensure MongoDB indexes")
			}
		}
		itemRepo, userRepo, notificationRepo = items, users, notifications
		deps.Mongo = db

		redisClient, err := redisdb.Connect(ctx, redisdb.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer redisClient.Close()

		revoked := redisdb.NewRevokedTokens(redisClient)
		svcRevoker, mwRevoker = revoked, revoked
		deps.Redis = redisClient

	case "memory":
		log.Warn().Msg("using in-memory stores: data is lost on shutdown")
		itemRepo = memory.NewItemRepository()
		userRepo = memory.NewUserRepository()
		notificationRepo = memory.NewNotificationRepository()

	default:
		log.Fatal().Str("backend", cfg.StoreBackend).Msg("unknown STORE_BACKEND")
	}

	uploads, err := storage.NewLocalStore(cfg.Upload.Dir, cfg.Upload.MaxBytes)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise upload storage")
	}
	deps.Uploads = uploads

	deps.Items = service.NewItemService(itemRepo, userRepo, notificationRepo, log)
	deps.Notifications = service.NewNotificationService(notificationRepo, log)
	deps.Auth = service.NewAuthService(userRepo, svcRevoker, cfg.JWTSecret, 0)
	deps.Revoker = mwRevoker

	e := api.NewRouter(deps)

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("backend", cfg.StoreBackend).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
