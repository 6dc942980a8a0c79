package routes

import (
	"app/handlers"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App) {
	app.Get("/version", handlers.HandleVersion)

	api := app.Group("/api/v1")
	api.Get("/health", handlers.HandleHealthCheck)

	// --- Import ---
	api.Post("/import", handlers.HandleImportFiles)
	api.Delete("/data", handlers.HandleClearData)
	api.Get("/stats", handlers.HandleGetStats)

	// --- Data ---
	api.Get("/sales", handlers.HandleListSales)
	api.Get("/customers", handlers.HandleListCustomers)

	// --- Dashboard ---
	dashboard := api.Group("/dashboard")
	dashboard.Get("/summary", handlers.HandleGetDashboardSummary)
	dashboard.Get("/charts", handlers.HandleGetDashboardCharts)

	// --- AI ---
	ai := api.Group("/ai")
	ai.Post("/analyze", handlers.HandleAnalyzeData)
	ai.Post("/forecast", handlers.HandleForecast)
	ai.Get("/verify", handlers.HandleVerifyAIKey)

	// --- Settings ---
	settings := api.Group("/settings")
	settings.Put("/ai-key", handlers.HandleSaveAIKey)
	settings.Get("/ai-key", handlers.HandleGetAIKeyStatus)
	settings.Delete("/ai-key", handlers.HandleDeleteAIKey)
}
