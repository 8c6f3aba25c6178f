package internal

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/mines/internal/config"
	"github.com/lk16/mines/internal/game"
	"github.com/lk16/mines/internal/middleware"
	"github.com/lk16/mines/internal/repository"
	"github.com/lk16/mines/internal/routes"
	"github.com/lk16/mines/internal/services"
	"github.com/lk16/mines/internal/session"
)

const (
	defaultConcurrency  = 256 * 1024 // Maximum number of concurrent connections per worker
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultIdleTimeout  = 5 * time.Second
	defaultBodyLimit    = 64 * 1024
	schemaTimeout       = 10 * time.Second
)

func SetupApp() (*fiber.App, *config.ServerConfig) {
	// Load configuration
	cfg := config.LoadServerConfig()

	// Initialize services
	services, err := services.InitServices(cfg)
	if err != nil {
		slog.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	repo := repository.NewGameRepositoryFromServices(services)

	ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
	defer cancel()

	if err = repo.EnsureSchema(ctx); err != nil {
		slog.Error("Failed to create database schema", "error", err)
		os.Exit(1)
	}

	games := game.NewService(newSessionStore(cfg, services), repo)

	return BuildApp(cfg, services, games), cfg
}

func newSessionStore(cfg *config.ServerConfig, services *services.Services) session.Store {
	if cfg.SessionStore == config.SessionStoreRedis {
		return session.NewRedisStore(services.Redis, cfg.SessionTTL)
	}

	if cfg.Prefork {
		slog.Warn("Sessions are kept in memory while prefork is enabled, they will not be shared between processes")
	}

	return session.NewMemoryStore(cfg.SessionTTL)
}

// BuildApp creates the Fiber app with all routes. services may be nil when the app runs without
// Postgres and Redis, the stats endpoint then answers 503.
func BuildApp(cfg *config.ServerConfig, services *services.Services, games *game.Service) *fiber.App {
	app := fiber.New(fiber.Config{
		Prefork:      cfg.Prefork,
		Concurrency:  defaultConcurrency,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
		BodyLimit:    defaultBodyLimit,
	})

	// Setup connections to external services and config in Fiber app
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("services", services)
		c.Locals("config", cfg)
		c.Locals("games", games)
		return c.Next()
	})

	// Add logging and metrics middleware
	app.Use(middleware.Logging())
	app.Use(middleware.Metrics())

	// Setup all routes
	routes.SetupRoutes(app, cfg)

	return app
}
