package main

import (
	"app/config"
	"app/database"
	"app/middleware"
	"app/routes"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	// Load configuration
	databasePath := os.Getenv("DATABASE_PATH")
	if databasePath == "" {
		databasePath = "sales_data.db"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	// Set up the application configuration
	config.AppConfig.DatabasePath = databasePath
	config.AppConfig.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	config.AppConfig.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")

	// Initialize database (creates the file and tables on first run)
	database.InitDB(databasePath)
	defer database.CloseDB()

	app := fiber.New(fiber.Config{
		BodyLimit: 32 * 1024 * 1024, // Excel uploads can be a few MB each
	})

	// Middleware
	middleware.Register(app)

	// Setup routes
	routes.SetupRoutes(app)

	// Start server
	log.Fatal(app.Listen(":" + port))
}
