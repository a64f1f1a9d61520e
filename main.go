package main

import (
	"log"
	"os"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"

	"tunehub/config"
	"tunehub/middleware"
	"tunehub/routes"
)

func main() {
	logger := log.New(os.Stdout, "TUNEHUB: ", log.Ldate|log.Ltime|log.Lshortfile)

	if err := config.LoadConfig(); err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	if config.AppConfig.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         config.AppConfig.SentryDSN,
			Environment: config.AppConfig.Environment,
		}); err != nil {
			logger.Printf("Sentry initialization failed: %v", err)
		}
	}

	if err := config.ConnectDB(); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 11 * 1024 * 1024, // profile photos up to 10MB plus form overhead
	})

	app.Use(middleware.CORS())

	// Uploaded profile photos are served straight from disk
	app.Static("/uploads/profiles", config.AppConfig.UploadDir)

	routes.SetupRoutes(app, config.DB)

	logger.Printf("Server starting on port %s", config.AppConfig.ServerPort)
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
