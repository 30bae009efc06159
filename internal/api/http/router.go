package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/catalog-admin/internal/api/http/handlers"
	"github.com/spec-kit/catalog-admin/internal/auth"
	"github.com/spec-kit/catalog-admin/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Products *handlers.ProductsHandler
	Admin    *handlers.AdminHandler
	Pages    *handlers.PagesHandler
	Guard    *auth.SessionGuard
	Metrics  *observability.Metrics
}

// RegisterRoutes wires HTTP routes. The edge guard runs first for every request; each
// protected page and API group then applies the authoritative check itself.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Guard.Edge())

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api")
	api.Get("/health", cfg.Health.Check)

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/session", cfg.Auth.Session)

	products := api.Group("/products", cfg.Guard.RequireAPI())
	products.Get("", cfg.Products.List)
	products.Post("", cfg.Products.Create)
	products.Post("/upload", cfg.Products.Upload)
	products.Get("/stats", cfg.Products.Stats)
	products.Get("/:id", cfg.Products.Get)
	products.Put("/:id", cfg.Products.Update)
	products.Delete("/:id", cfg.Products.Delete)

	admin := api.Group("/admin", cfg.Guard.RequireAPI())
	admin.Post("/onboard", cfg.Admin.Onboard)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard", fiber.StatusFound)
	})
	app.Get("/login", cfg.Pages.Login)

	dashboard := app.Group("/dashboard", cfg.Guard.RequirePage())
	dashboard.Get("", cfg.Pages.Dashboard)
	dashboard.Get("/products/new", cfg.Pages.NewProduct)
	dashboard.Get("/products/edit/:id", cfg.Pages.EditProduct)

	app.Get("/admin/onboard", cfg.Guard.RequirePage(), cfg.Pages.Onboard)
}
