package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/stroymat/internal/config"
	"github.com/example/stroymat/internal/database"
	"github.com/example/stroymat/internal/routes"
	"github.com/example/stroymat/internal/seed"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	app := fiber.New(fiber.Config{
		AppName: "Stroymat Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	routes.Register(app, db, cfg)

	if err := seed.EnsureAdmin(db, cfg); err != nil {
		log.Fatalf("admin seed failed: %v", err)
	}
	if cfg.SeedDemoData {
		if err := seed.LoadDemoData(db); err != nil {
			log.Printf("demo seed failed: %v", err)
		}
	}

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
