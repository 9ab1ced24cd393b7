package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"clinic-records-server/internal/bootstrap"
	"clinic-records-server/internal/config"
	"clinic-records-server/internal/models"
	"clinic-records-server/internal/repository"
	"clinic-records-server/internal/routes"
)

func main() {
	// Load environment variables; a missing .env file is fine in
	// deployed environments where variables come from the platform.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on process environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database connection
	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	// Bootstrap: ensure schema, optionally seed the default admin. A
	// schema failure halts startup; the app cannot serve without it.
	if cfg.InitDBOnStartup {
		if err := bootstrap.Ensure(db); err != nil {
			log.Fatalf("Error ensuring schema: %v", err)
		}
		users := repository.NewGormUserRepository(db)
		if err := bootstrap.SeedDefaultAdmin(context.Background(), users, cfg.Admin); err != nil {
			log.Fatalf("Error seeding default admin: %v", err)
		}
	}

	// Initialize Gin router
	router := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, db, cfg)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	fmt.Printf("Server running on port %s\n", cfg.Port)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
