// main.go - eventhub server
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventhub/config"
	"eventhub/database"
	"eventhub/gate"
	"eventhub/handlers"
	"eventhub/handlers/admin"
	"eventhub/logging"
	"eventhub/middleware"
	"eventhub/realtime"
	"eventhub/services"
	"eventhub/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("FATAL: invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel, cfg.IsProduction())
	slog.SetDefault(log)

	if cfg.IsProduction() && cfg.CORSOrigins == "http://localhost:3000" {
		log.Warn("CORS_ORIGINS not properly configured for production")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL, logging.GormLevel(cfg.LogLevel))
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Change feed
	hub := realtime.NewHub(log)
	if err := realtime.RegisterCallbacks(db, hub); err != nil {
		log.Error("Failed to register change feed callbacks", "error", err)
		os.Exit(1)
	}

	rdb, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	var revoker session.Revoker
	if rdb != nil {
		defer rdb.Close()
		revoker = session.NewRedisRevoker(rdb)
		go runBridge(ctx, rdb, hub, log)
	} else {
		log.Info("REDIS_URL not set, running single-instance with in-memory revocation")
		revoker = session.NewMemoryRevoker()
	}

	sessions := session.NewManager(cfg.JWTSecret, cfg.JWTTTL, revoker)

	gates := gate.NewRegistry(cfg.GateTTL)
	go gates.Run(ctx, time.Minute)

	var limits handlers.Limiters
	if cfg.RateLimitEnabled {
		limits.General = middleware.NewRateLimiter("general", cfg.RateLimitMaxRequests, cfg.RateLimitWindow)
		limits.Auth = middleware.NewRateLimiter("auth", cfg.AuthRateLimitMax, cfg.AuthRateLimitWindow)
		go limits.General.Run(ctx)
		go limits.Auth.Run(ctx)
	}

	store := services.NewStore(db)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(cfg.IsProduction()),
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	h := handlers.New(handlers.Options{
		Store:      store,
		Sessions:   sessions,
		Gates:      gates,
		Hub:        hub,
		Logger:     log,
		Production: cfg.IsProduction(),
	})
	h.Mount(app, middleware.NewAuth(sessions), admin.New(store, log), limits)

	go func() {
		<-ctx.Done()
		log.Info("Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("Shutdown failed", "error", err)
		}
	}()

	log.Info("HTTP server starting", "port", cfg.Port, "env", cfg.AppEnv, "redis", rdb != nil)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("Failed to start HTTP server", "error", err)
		os.Exit(1)
	}
}

// runBridge keeps the Redis change feed bridge running, reconnecting after
// failures until ctx is done.
func runBridge(ctx context.Context, rdb *redis.Client, hub *realtime.Hub, log *slog.Logger) {
	bridge := realtime.NewRedisBridge(rdb, hub, log)
	for {
		err := bridge.Run(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("Change feed bridge stopped, retrying", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}
