package main

import (
	"log"
	"os"
	"strings"
	"time"
	"tripmate/database"
	"tripmate/handlers"
	"tripmate/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file (ignored in production where env vars are set directly)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found — using environment variables")
	}

	// Initialize database
	database.InitDB()

	// Initialize external-service clients
	services.InitFlights()
	services.InitAI()
	services.InitWikipedia()

	// Initialize token signing
	handlers.InitAuth()

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// Trusted proxies (deployment sits behind a proxy)
	r.SetTrustedProxies([]string{"0.0.0.0/0"})

	// CORS — allow configured frontend origins
	frontendURLs := os.Getenv("FRONTEND_URL")
	allowedOrigins := []string{"http://localhost:5173", "http://localhost:3000"}
	if frontendURLs != "" {
		for _, u := range strings.Split(frontendURLs, ",") {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Routes
	r.GET("/health", handlers.HealthHandler)
	r.POST("/signup", handlers.SignupHandler)
	r.POST("/token", handlers.LoginHandler)
	r.POST("/plan", handlers.PlanHandler)
	r.POST("/recommend", handlers.RecommendHandler)

	trips := r.Group("/trips", handlers.RequireAuth())
	{
		trips.POST("", handlers.CreateTripHandler)
		trips.GET("", handlers.ListTripsHandler)
		trips.DELETE("/:id", handlers.DeleteTripHandler)
		trips.GET("/:id/pdf", handlers.TripPDFHandler)
	}

	r.POST("/chat", handlers.RequireAuth(), handlers.ChatHandler)
	r.GET("/history", handlers.RequireAuth(), handlers.HistoryHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 TripMate backend starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
