package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/martin-sellanes/pulseras-crm-api/config"
	"github.com/martin-sellanes/pulseras-crm-api/controllers"
	"github.com/martin-sellanes/pulseras-crm-api/middleware"
	"github.com/martin-sellanes/pulseras-crm-api/models"
	"github.com/martin-sellanes/pulseras-crm-api/services"
	"github.com/martin-sellanes/pulseras-crm-api/store"
)

func main() {
	// Basic logging
	log.Println("Starting Pulseras CRM API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	images := buildImageService(cfg)
	customers, orders, err := buildServices(cfg, images)
	if err != nil {
		log.Fatalf("Failed to initialize %s store backend: %v", cfg.StoreBackend, err)
	}
	log.Printf("Using %s store backend", cfg.StoreBackend)

	router := setupRouter(cfg, customers, orders)

	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildServices wires the directory and ledger over the configured backend.
func buildServices(cfg *config.Config, images services.ImageService) (services.CustomerDirectory, services.OrderLedger, error) {
	switch cfg.StoreBackend {
	case config.BackendDatabase:
		if err := config.ConnectDatabase(cfg); err != nil {
			return nil, nil, err
		}
		db := config.GetDB()
		if err := db.AutoMigrate(&models.Customer{}, &models.Order{}); err != nil {
			return nil, nil, err
		}
		log.Println("Database migration completed successfully")

		directory := services.NewDBDirectory(db)
		return directory, services.NewDBLedger(db, directory, images), nil

	default: // config.BackendSheet; Load has already validated the value
		creds, err := cfg.GoogleCredentials()
		if err != nil {
			return nil, nil, err
		}
		st, err := store.NewSheetsStore(context.Background(), creds, cfg.SpreadsheetID)
		if err != nil {
			return nil, nil, err
		}

		directory := services.NewSheetDirectory(st, cfg.CustomersSheet)
		return directory, services.NewSheetLedger(st, cfg.OrdersSheet, directory, images), nil
	}
}

// buildImageService returns the S3-backed image service, or a disabled stub
// when no bucket is configured.
func buildImageService(cfg *config.Config) services.ImageService {
	if !cfg.UploadsEnabled() {
		log.Println("AWS_S3_BUCKET not set, image uploads disabled")
		return services.DisabledImageService{}
	}

	s3Service, err := services.NewS3Service(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize S3 client: %v", err)
	}
	return services.NewImageService(s3Service, cfg.S3UploadFolder)
}

// setupRouter configures the gin engine with middleware and routes.
func setupRouter(cfg *config.Config, customers services.CustomerDirectory, orders services.OrderLedger) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.CORS(cfg))

	customerController := &controllers.CustomerController{Directory: customers}
	orderController := &controllers.OrderController{Ledger: orders}

	api := router.Group("/api")
	{
		api.GET("/", root)
		api.GET("/health", healthCheck)

		api.GET("/customers", customerController.List)
		api.POST("/customers", customerController.Create)

		api.GET("/orders", orderController.List)
		api.POST("/orders", orderController.Create)
	}

	return router
}

// root handles the identity endpoint
func root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Pulseras CRM API",
	})
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Pulseras CRM API is running",
	})
}
