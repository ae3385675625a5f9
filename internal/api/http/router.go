package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/mood-tracker/internal/api/http/handlers"
	"github.com/spec-kit/mood-tracker/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Moods          *handlers.MoodsHandler
	AuthMiddleware *auth.AuthMiddleware
	LoginLimiter   *LoginRateLimiter
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	if cfg.LoginLimiter != nil {
		authGroup.Post("/login", cfg.LoginLimiter.Handle, cfg.Auth.Login)
	} else {
		authGroup.Post("/login", cfg.Auth.Login)
	}

	moods := app.Group("/moods", cfg.AuthMiddleware.Handle)
	moods.Post("/", cfg.Moods.Create)
	moods.Get("/", cfg.Moods.List)
	moods.Get("/analytics", cfg.Moods.Analytics)
	moods.Put("/:id", cfg.Moods.Update)
	moods.Delete("/:id", cfg.Moods.Delete)
}
