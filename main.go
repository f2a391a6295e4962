package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"cointracker/config"
	"cointracker/db"
	"cointracker/handlers"
	"cointracker/models"
	"cointracker/services"
	"cointracker/store"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	database, err := db.NewPostgres(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate the schema
	if err := database.AutoMigrate(&models.Transaction{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("Database initialized and migrated successfully")

	// Setup HTTP server with Echo
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	// Initialize handlers
	txStore := store.NewTransactionStore()
	prices := services.NewCoinGeckoClient(cfg.CoinGeckoAPIKey)
	txHandler := handlers.NewTransactionHandler(txStore)
	cryptoHandler := handlers.NewCryptoHandler(prices, txStore)
	healthHandler := handlers.NewHealthHandler(database)

	// Setup routes
	crypto := e.Group("/crypto", db.Transactional(database))
	crypto.GET("/:crypto_name", cryptoHandler.GetCryptoPrice)

	transactions := e.Group("/transactions", db.Transactional(database))
	transactions.GET("/", txHandler.ListTransactions)
	transactions.POST("/", txHandler.CreateTransaction)
	transactions.GET("/:id", txHandler.GetTransaction)
	transactions.PUT("/:id", txHandler.UpdateTransaction)
	transactions.DELETE("/:id", txHandler.DeleteTransaction)

	health := e.Group("/health", middleware.BasicAuth(func(user, password string, c echo.Context) (bool, error) {
		return user == cfg.HealthUser && password == cfg.HealthPassword, nil
	}))
	health.GET("", healthHandler.GetHealth)

	// Start HTTP server in a goroutine
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: e,
	}

	go func() {
		log.Printf("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped successfully")
	}

	log.Println("Application shutdown complete")
}
