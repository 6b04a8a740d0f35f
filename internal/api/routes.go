package api

import (
	"github.com/bilgisen/rsswatch/internal/config"
	"github.com/bilgisen/rsswatch/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, handlers *Handlers, cfg *config.Config) {
	// Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	admin := middleware.AdminOnly(cfg.AdminAPIKey)

	// API group with versioning
	api := app.Group("/api/v1")

	// Health check endpoint
	api.Get("/health", handlers.HealthCheck)

	// Feed configuration
	feeds := api.Group("/feeds")
	{
		feeds.Get("", handlers.ListFeeds)
		feeds.Post("", admin, handlers.CreateFeed)
		feeds.Delete("/:id", admin, handlers.DeleteFeed)
	}

	// Keyword watchlist
	keywords := api.Group("/keywords")
	{
		keywords.Get("", handlers.ListKeywords)
		keywords.Post("", admin, handlers.CreateKeyword)
		keywords.Delete("/:id", admin, handlers.DeleteKeyword)
	}

	// Manual run trigger
	api.Post("/fetch", admin, handlers.TriggerFetch)

	// Matched news
	news := api.Group("/news")
	{
		news.Get("", handlers.ListNews)
		news.Get("/:id", handlers.GetNewsByID)
	}

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
