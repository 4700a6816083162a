package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-notify/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Webhook   *handlers.WebhookHandler
	Ratings   *handlers.RatingsHandler
	Lifecycle *handlers.LifecycleHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/webhooks/whatsapp", cfg.Webhook.Verify)
	app.Post("/webhooks/whatsapp", cfg.Webhook.Receive)

	ratings := app.Group("/ratings")
	ratings.Post("", cfg.Ratings.Create)
	ratings.Get("/stats", cfg.Ratings.Stats)
	ratings.Get("/ticket/:ticketID", cfg.Ratings.GetByTicket)
	ratings.Get("/customer/:customerID", cfg.Ratings.ListByCustomer)

	internal := app.Group("/internal/lifecycle")
	internal.Post("/status-change", cfg.Lifecycle.StatusChange)
	internal.Post("/assignment", cfg.Lifecycle.Assignment)
}
