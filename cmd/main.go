package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/maryaskin70/pharma-shop/internal/cart"
	"github.com/maryaskin70/pharma-shop/internal/catalog"
	h "github.com/maryaskin70/pharma-shop/internal/http"
	"github.com/maryaskin70/pharma-shop/internal/notify"
	"github.com/maryaskin70/pharma-shop/internal/order"
	"github.com/maryaskin70/pharma-shop/internal/service"
)

type Config struct {
	HTTPPort              string
	CatalogDBPath         string
	MigrationsPath        string
	RedisAddr             string
	KafkaBrokers          []string
	OrderEndpoint         string
	RequestTimeout        time.Duration
	ShutdownTimeout       time.Duration
	ShippingFlat          float64
	FreeShippingThreshold float64
	TaxRate               float64
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:              getEnv("HTTP_PORT", "8080"),
		CatalogDBPath:         getEnv("CATALOG_DB_PATH", "catalog.db"),
		MigrationsPath:        getEnv("MIGRATIONS_PATH", "internal/catalog/migrations"),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:          splitEnv(getEnv("KAFKA_BROKERS", "")),
		OrderEndpoint:         getEnv("ORDER_ENDPOINT", "http://localhost:9090/orders"),
		RequestTimeout:        30 * time.Second,
		ShutdownTimeout:       10 * time.Second,
		ShippingFlat:          getEnvFloat("SHIPPING_FLAT", 4.99),
		FreeShippingThreshold: getEnvFloat("FREE_SHIPPING_THRESHOLD", 50),
		TaxRate:               getEnvFloat("TAX_RATE", 0),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func splitEnv(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}

func main() {
	cfg := loadConfig()

	// Catalog snapshot from sqlite
	repo, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("failed to open catalog database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("failed to run catalog migrations: %v", err)
	}

	products, err := repo.LoadProducts(context.Background())
	if err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}
	log.Printf("catalog loaded: %d products", len(products))

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	catalogService := catalog.NewService(catalog.NewIndex(products), catalog.NewCache(redisClient))

	assembler := &order.Assembler{
		Shipping: order.ShippingRule{
			FlatAmount:    cfg.ShippingFlat,
			FreeThreshold: cfg.FreeShippingThreshold,
		},
		TaxRate: cfg.TaxRate,
		Discounts: order.StaticDiscounts{
			"WELCOME10": {Code: "WELCOME10", Type: order.DiscountFixed, Amount: 10},
		},
	}

	submitter := order.NewSubmitter(cfg.OrderEndpoint, cfg.RequestTimeout)

	observers := []service.ObserverFactory{
		func(sessionID string) cart.Observer {
			return func(message string) {
				log.Printf("cart %s: %s", sessionID, message)
			}
		},
	}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := notify.NewCartEventPublisher(cfg.KafkaBrokers...)
		defer publisher.Close()
		observers = append(observers, func(sessionID string) cart.Observer {
			return publisher.Observer(sessionID)
		})
	}

	front := service.NewStorefront(catalogService, assembler, submitter, observers...)

	productHandler := h.NewProductHandler(front, cfg.RequestTimeout)
	cartHandler := h.NewCartHandler(front, cfg.RequestTimeout)
	checkoutHandler := h.NewCheckoutHandler(front, cfg.RequestTimeout)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.SessionMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Get("/{id}", productHandler.GetByID)
			r.Get("/{id}/related", productHandler.Related)
			r.Post("/{id}/resolve", productHandler.Resolve)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{item_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{item_id}", cartHandler.RemoveItem)
			r.Delete("/", cartHandler.ClearCart)
		})
		r.Post("/checkout", checkoutHandler.Checkout)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "pharma-shop"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
