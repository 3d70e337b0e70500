package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smartcity/staff-service/internal/api/http/handlers"
	"github.com/smartcity/staff-service/internal/auth"
	"github.com/smartcity/staff-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Staff          *handlers.StaffHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Role gating lives entirely on the
// routes; the service layer never second-guesses it.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/staff/login", cfg.Auth.Login)

	staff := app.Group("/staff", cfg.AuthMiddleware.Handle)
	staff.Get("/", auth.RequireRole(domain.RoleAdmin), cfg.Staff.List)
	staff.Get("/me", auth.RequireRole(domain.RoleStaff), cfg.Staff.Me)
	staff.Post("/", auth.RequireRole(domain.RoleAdmin), cfg.Staff.Create)
	staff.Patch("/", auth.RequireRole(domain.RoleAdmin, domain.RoleStaff), cfg.Staff.Update)
	staff.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Staff.Delete)
}
