package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wall-elevation/internal/common/config"
	"wall-elevation/internal/common/metrics"
	"wall-elevation/internal/common/middleware"
	"wall-elevation/internal/elevation/agent"
	"wall-elevation/internal/elevation/handlers"
	"wall-elevation/internal/elevation/repository"
	"wall-elevation/internal/elevation/service"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
)

// ============================================================
// Wall Elevation Service
// ============================================================

func main() {
	cfg := config.Load()
	middleware.SetLogLevel(cfg.LogLevel)

	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer closeStore()

	if cfg.SeedSample {
		if err := repository.Seed(context.Background(), store); err != nil {
			log.Fatalf("seed sample wall: %v", err)
		}
	}

	registry := prometheus.NewRegistry()
	elevationMetrics, err := metrics.NewElevationMetrics(registry)
	if err != nil {
		log.Fatalf("register metrics: %v", err)
	}

	sessions := service.NewSessionManager(store, cfg.SessionTTL, elevationMetrics)
	elevationHandler := handlers.NewElevationHandler(handlers.Deps{
		Store:       store,
		Interpreter: agent.NewKeywordInterpreter(),
		Sessions:    sessions,
		Cache:       service.NewRenderCache(cfg.RenderCacheTTL),
		Exports:     service.NewExportStorage(cfg.ExportDir),
		Metrics:     elevationMetrics,
		TargetWidth: cfg.TargetWidth,
	})

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Wall Elevation",
		// параметры маршрутов живут дольше запроса (сессии, хранилище)
		Immutable: true,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	handlers.NewHealthHandler(store).Register(app)
	app.Get("/metrics", handlers.MetricsHandler(registry))

	// ============================================================
	// Swagger Routes
	// ============================================================

	app.Get("/docs/openapi.yaml", handlers.SwaggerSpec)
	app.Get("/docs", handlers.SwaggerUI)

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Wall Elevation v1",
			"status":  "ok",
		})
	})

	elevationHandler.Register(api)

	// ============================================================
	// Server Start
	// ============================================================

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Printf("Shutting down, closing %d sessions", sessions.Count())
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Wall Elevation on %s (env: %s, store: %s)", addr, cfg.Environment, cfg.StoreDriver)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	// незавершенные сохранения дописываются до закрытия хранилища
	sessions.Shutdown()
}

func openStore(cfg *config.Config) (repository.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		return repository.NewMemoryStore(), func() {}, nil
	case config.StoreSQLite:
		db, err := repository.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		store := repository.NewSQLiteStore(db)
		if err := store.Init(context.Background(), cfg.MigrationsPath); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("init db: %w", err)
		}
		return store, func() { db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
