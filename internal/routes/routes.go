package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/innkeep/innkeep/internal/auth"
	"github.com/innkeep/innkeep/internal/config"
	"github.com/innkeep/innkeep/internal/identity"
	"github.com/innkeep/innkeep/internal/middleware"
	"github.com/innkeep/innkeep/internal/notification"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !config.IsDev(d.Cfg.AppEnv) {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Services and handlers
	var store identity.Repository
	if d.DB != nil {
		store = identity.NewPostgresRepository(d.DB)
	} else {
		store = identity.NewMemoryRepository()
	}

	var registry auth.TokenRegistry
	if d.Cache != nil {
		registry = auth.NewRedisTokenRegistry(d.Cache)
	} else {
		registry = auth.NewMemoryTokenRegistry()
	}

	hasher, err := auth.NewPasswordHasher(d.Cfg.BcryptCost)
	if err != nil {
		return err
	}
	signer := auth.NewTokenSigner([]byte(d.Cfg.JWTSecret))
	mailer := notification.NewLoggerMailer(d.Logger)
	authSvc := auth.NewService(d.Cfg, store, hasher, signer, registry, mailer, d.Logger)
	authHandler := auth.NewHandler(authSvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// Protected routes
	protected := api.Group("", middleware.BearerAuth(authSvc))
	RegisterProfileRoutes(protected, store)

	return nil
}
