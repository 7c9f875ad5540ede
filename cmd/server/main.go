package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/mint-kitchen/internal/config"
	"github.com/Lixing-Zhang/mint-kitchen/internal/handlers"
	"github.com/Lixing-Zhang/mint-kitchen/internal/middleware"
	"github.com/Lixing-Zhang/mint-kitchen/internal/repository"
	"github.com/Lixing-Zhang/mint-kitchen/internal/service"
	"github.com/Lixing-Zhang/mint-kitchen/internal/square"
	"github.com/Lixing-Zhang/mint-kitchen/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting mint kitchen api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"processor", cfg.Payment.Processor,
	)

	// Pick the catalog and payment backend
	catalog, processor := newBackend(cfg, log)

	// Initialize services
	menuService := service.NewMenuService(catalog)
	orderService := service.NewOrderService(processor)
	paymentService := service.NewPaymentService(processor)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.Payment.Processor, log)
	menuHandler := handlers.NewMenuHandler(menuService, log)
	orderHandler := handlers.NewOrderHandler(orderService, paymentService, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration: only the storefront origins may call the API
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Register health check endpoints
	r.Get("/", healthHandler.ServeHTTP)
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Catalog endpoints
		r.Get("/menu", menuHandler.GetMenu)
		r.Get("/categories", menuHandler.GetCategories)
		r.Get("/items/{itemId}", menuHandler.GetItem)

		// Order and payment endpoints
		r.Post("/orders/create", orderHandler.CreateOrder)
		r.Post("/payments/create", orderHandler.CreatePayment)
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// newBackend returns the catalog and payment processor for the configured
// processor. The memory backend serves a seeded menu and a local ledger.
func newBackend(cfg *config.Config, log *slog.Logger) (repository.CatalogRepository, repository.PaymentProcessor) {
	if cfg.Payment.Processor == config.ProcessorSquare {
		client := square.NewClient(
			cfg.Payment.Square.Environment,
			cfg.Payment.Square.AccessToken(),
			cfg.Payment.Square.LocationID,
			square.WithLogger(log),
		)
		log.Info("using square backend", "environment", cfg.Payment.Square.Environment)
		return client, client
	}

	log.Info("using in-memory backend")
	return repository.NewInMemoryCatalogRepository(), repository.NewInMemoryLedger(cfg.Payment.Square.LocationID)
}
