package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/credit-risk-dashboard/internal/application/dashboard"
	"github.com/jhoicas/credit-risk-dashboard/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RiskUC      *usecase.RiskUseCase
	DashboardUC *dashboard.DashboardUseCase
	ServiceName string
	// HealthCheck opcional: verifica el almacén (ping del pool).
	HealthCheck func(ctx context.Context) error
}

// Router registra las rutas de la API y de las páginas.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps))

	api := app.Group("/api")

	customerHandler := NewCustomerHandler(deps.RiskUC)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.RiskUC)

	customers := api.Group("/customer")
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Get("/:id/explain", customerHandler.Explain)
	customers.Get("/:id/assessment", customerHandler.Assessment)
	customers.Get("/:id/dashboard", dashboardHandler.View)
	customers.Get("/:id/report.pdf", dashboardHandler.Report)

	// Páginas HTML
	app.Get("/", dashboardHandler.Home)
	app.Get("/customers", dashboardHandler.Search)
	app.Get("/customers/:id", dashboardHandler.Page)
}

func healthHandler(deps RouterDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := fiber.Map{"status": "ok", "service": deps.ServiceName}
		if deps.HealthCheck == nil {
			return c.JSON(body)
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := deps.HealthCheck(ctx); err != nil {
			body["status"] = "degraded"
			body["database"] = err.Error()
			return c.Status(fiber.StatusServiceUnavailable).JSON(body)
		}
		body["database"] = "ok"
		return c.JSON(body)
	}
}
