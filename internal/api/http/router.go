package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-hotline/internal/api/http/handlers"
	"github.com/spec-kit/complaint-hotline/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Call           *handlers.CallHandler
	Tickets        *handlers.TicketsHandler
	Staff          *handlers.StaffHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Use("/call", cfg.Call.UpgradeGuard)
	app.Get("/call", cfg.Call.Stream())

	app.Post("/auth/staff/login", cfg.Staff.Login)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Get("/", cfg.Tickets.ListByUnit)
	tickets.Get("/:reference", cfg.Tickets.Get)
	tickets.Patch("/:reference/status", cfg.Tickets.TransitionStatus)
}
