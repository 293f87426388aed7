package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/brahimakil/coachingsystem-sub001/internal/config"
	"github.com/brahimakil/coachingsystem-sub001/internal/database"
	"github.com/brahimakil/coachingsystem-sub001/internal/routes"
	"github.com/brahimakil/coachingsystem-sub001/internal/scheduler"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Connect to Firebase
	clients, err := database.Connect(context.Background(), cfg.FirebaseProjectID, cfg.FirebaseCredentials)
	if err != nil {
		log.Fatalf("Failed to connect to firebase: %v", err)
	}
	defer clients.Close()

	// 3. Setup Fiber
	app := fiber.New()

	// Middleware
	app.Use(cors.New())
	app.Use(logger.New())
	app.Use(recover.New())

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"env":    cfg.AppEnv,
		})
	})
	subscriptionService := routes.RegisterRoutes(app, cfg, clients)

	// 4. Expiry sweep: once now, then on the daily schedule
	sweep, err := scheduler.New(cfg.ExpirySweepSchedule, subscriptionService)
	if err != nil {
		log.Fatalf("Failed to schedule expiry sweep: %v", err)
	}
	sweep.Start()
	defer sweep.Stop()

	// 5. Start Server
	log.Printf("Server starting on port %s (%s)", cfg.Port, cfg.AppEnv)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
