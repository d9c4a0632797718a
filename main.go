package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/rniedson/brbandeiras-api/config"
	"github.com/rniedson/brbandeiras-api/controllers"
	"github.com/rniedson/brbandeiras-api/middleware"
	"github.com/rniedson/brbandeiras-api/models"
	"github.com/rniedson/brbandeiras-api/services"
)

func main() {
	log.Println("Starting brbandeiras order API...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := config.InitLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.ArtworkAssignment{},
		&models.ArtworkVersion{},
		&models.ProductionEvent{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	if _, err := services.InitFileStorage(cfg); err != nil {
		log.Fatalf("Failed to initialize file storage: %v", err)
	}

	router := setupRouter(cfg)

	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/uploads/*key", controllers.ServeUpload)

		authenticated := v1.Group("")
		authenticated.Use(middleware.EnsureValidToken(cfg))
		{
			authenticated.POST("/usuarios", controllers.CreateUser)
			authenticated.GET("/usuarios/me", controllers.GetMyProfile)

			authenticated.POST("/pedidos", controllers.CreateOrder)
			authenticated.GET("/pedidos", controllers.ListOrders)
			authenticated.GET("/pedidos/:id", controllers.GetOrder)
			authenticated.PUT("/pedidos/:id/itens", controllers.UpdateOrderItems)
			authenticated.POST("/pedidos/:id/status", controllers.TransitionOrder)
			authenticated.GET("/pedidos/:id/historico", controllers.GetOrderHistory)

			authenticated.POST("/pedidos/:id/artes", controllers.UploadArtwork)
			authenticated.GET("/pedidos/:id/artes", controllers.ListArtwork)
			authenticated.PUT("/pedidos/:id/arte-finalista", controllers.ReassignArtworkDesigner)
			authenticated.POST("/artes/:id/avaliacao", controllers.ReviewArtwork)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "brbandeiras order API is running",
	})
}
