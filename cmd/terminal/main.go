package main

import (
	"context"
	"log"
	"time"

	"github.com/OchiengBrandon/HyperPOS/config"
	"github.com/OchiengBrandon/HyperPOS/internal/handler"
	"github.com/OchiengBrandon/HyperPOS/internal/session"
	"github.com/OchiengBrandon/HyperPOS/internal/view"
	"github.com/OchiengBrandon/HyperPOS/pkg/saleclient"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Load Configuration
	config.LoadConfig()

	// 2. Build the backend sale client
	client, err := saleclient.New(
		config.AppConfig.Backend.BaseURL,
		config.AppConfig.Backend.ProcessSaleURL,
		config.AppConfig.Backend.CSRFCookieName,
	)
	if err != nil {
		log.Fatalf("Failed to build sale client: %v", err)
	}

	// Fetch the CSRF cookie the same way loading the page would
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := client.Prime(ctx); err != nil {
		log.Printf("Warning: could not prime CSRF cookie: %v", err)
	}
	cancel()

	// 3. Initialize Session Registry
	registry := session.NewRegistry()
	renderer := view.Renderer{CurrencySymbol: config.AppConfig.Display.CurrencySymbol}

	// 4. Initialize Router
	r := gin.Default()

	// CORS Configuration
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 5. Setup Routes
	sessionHandler := handler.NewSessionHandler(
		registry,
		renderer,
		config.AppConfig.POS.TaxRate,
		config.AppConfig.POS.ReceiptPath,
		client,
	)

	sessionRoutes := r.Group("/api/v1/sessions")
	{
		sessionRoutes.POST("", sessionHandler.CreateSession)
		sessionRoutes.GET("/:id", sessionHandler.GetSession)
		sessionRoutes.DELETE("/:id", sessionHandler.CloseSession)

		sessionRoutes.POST("/:id/items", sessionHandler.AddItem)
		sessionRoutes.POST("/:id/items/:index/adjust", sessionHandler.AdjustQuantity)
		sessionRoutes.PUT("/:id/items/:index", sessionHandler.SetQuantity)
		sessionRoutes.DELETE("/:id/items/:index", sessionHandler.RemoveItem)
		sessionRoutes.POST("/:id/clear", sessionHandler.ClearCart)

		sessionRoutes.PUT("/:id/discount", sessionHandler.SetDiscount)
		sessionRoutes.PUT("/:id/customer", sessionHandler.SelectCustomer)

		sessionRoutes.POST("/:id/checkout", sessionHandler.Checkout)
		sessionRoutes.PUT("/:id/payment-method", sessionHandler.SelectPaymentMethod)
		sessionRoutes.PUT("/:id/payment-details", sessionHandler.SetPaymentDetails)
		sessionRoutes.POST("/:id/submit", sessionHandler.SubmitSale)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 6. Start Server
	port := config.AppConfig.Server.Port
	log.Printf("Terminal starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
