package main

import (
	"fmt"
	"log"
	"os"

	"hybrid-sizing/internal/api/handlers"
	"hybrid-sizing/internal/api/middleware"
	"hybrid-sizing/internal/config"
	"hybrid-sizing/internal/sizing"

	"github.com/gin-gonic/gin"
)

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	// Container presets: from file if given, built-in defaults otherwise.
	var containers []sizing.ContainerSpec
	if path := os.Getenv("CONTAINER_FILE"); path != "" {
		loaded, err := config.LoadContainers(path)
		if err != nil {
			log.Fatalf("Failed to load container presets from %s: %v", path, err)
		}
		containers = loaded
		log.Printf("Loaded %d container presets from %s", len(containers), path)
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	simulateHandler := handlers.NewSimulateHandler()
	sizingHandler := handlers.NewSizingHandler(containers)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/simulate", simulateHandler.Run)

		api.POST("/size/battery", sizingHandler.SizeBattery)
		api.POST("/size/generator", sizingHandler.SizeGenerator)
		api.POST("/sweep", sizingHandler.Sweep)

		api.GET("/containers", sizingHandler.ListContainers)
	}

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
