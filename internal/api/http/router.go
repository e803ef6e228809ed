package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Complaints     *handlers.ComplaintsHandler
	Departments    *handlers.DepartmentsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	users := app.Group("/users")
	users.Post("/", cfg.Users.Register)
	users.Post("/login", cfg.Users.Login)
	users.Post("/password-reset", cfg.Users.RequestPasswordReset)
	users.Post("/password-reset/confirm", cfg.Users.ConfirmPasswordReset)

	authed := cfg.AuthMiddleware.Handle

	users.Get("/profile", authed, auth.RequireAuthenticated(), cfg.Users.Profile)
	users.Post("/password", authed, auth.RequireAuthenticated(), cfg.Users.ChangePassword)
	users.Get("/staff", authed, auth.RequireRole(domain.RoleStaff, domain.RoleAdmin), cfg.Users.ListStaff)
	users.Get("/", authed, auth.RequireRole(domain.RoleAdmin), cfg.Users.List)
	users.Patch("/:id", authed, auth.RequireRole(domain.RoleAdmin), cfg.Users.Update)
	users.Delete("/:id", authed, auth.RequireRole(domain.RoleAdmin), cfg.Users.Delete)

	complaints := app.Group("/complaints", authed, auth.RequireAuthenticated())
	complaints.Post("/", cfg.Complaints.Create)
	complaints.Get("/", cfg.Complaints.List)
	// Registered before /:id so the literal path wins over the parameter.
	complaints.Get("/stats", auth.RequireRole(domain.RoleAdmin), cfg.Complaints.Stats)
	complaints.Get("/:id", cfg.Complaints.Get)
	complaints.Patch("/:id/status", auth.RequireRole(domain.RoleStaff, domain.RoleAdmin), cfg.Complaints.UpdateStatus)
	complaints.Post("/:id/responses", cfg.Complaints.AddResponse)
	complaints.Patch("/:id/assign", auth.RequireRole(domain.RoleAdmin), cfg.Complaints.Assign)
	complaints.Get("/:id/history", auth.RequireRole(domain.RoleStaff, domain.RoleAdmin), cfg.Complaints.History)

	departments := app.Group("/departments")
	departments.Get("/", cfg.Departments.List)
	departments.Post("/", authed, auth.RequireRole(domain.RoleAdmin), cfg.Departments.Create)
}
