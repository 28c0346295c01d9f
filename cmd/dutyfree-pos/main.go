package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/api/handlers"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/api/middleware"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/backoffice"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/cache"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/config"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/health"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/metrics"
	repository "github.com/aaravmahajanofficial/dutyfree-pos/internal/repositories"
	service "github.com/aaravmahajanofficial/dutyfree-pos/internal/services"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/tracing"
	"github.com/aaravmahajanofficial/dutyfree-pos/pkg/sendGrid"
)

const version = "1.0.0"

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Tracing setup
	shutdownTracing, err := tracing.Init(ctx, cfg.Otel, cfg.Env, version)
	if err != nil {
		slog.Error("❌ Error initialising tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup (settlement journal)
	repos, err := repository.New(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
		}
	}()

	redisCache := cache.NewRedisCache(redisClient, &cfg.Cache)
	cartRepo := repository.NewCartRepo(redisCache, cfg.Cache.CartTTL)
	throttle := repository.NewCheckoutThrottle(redisClient, cfg.RateConfig)

	// Back-office
	backofficeClient := backoffice.NewClient(cfg.Backoffice.BaseURL, cfg.Backoffice.Timeout)

	resolver, err := service.NewPromotionResolver(cfg.Promotions.Mode, backofficeClient)
	if err != nil {
		slog.Error("❌ Error configuring promotions", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var emailService sendGrid.EmailService
	if cfg.SendGrid.APIKey != "" {
		emailService = sendGrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	}

	locks := service.NewSessionLocks()
	catalog := service.NewProductCatalog(backofficeClient, redisCache, cfg.Cache.ProductTTL)
	notificationService := service.NewNotificationService(emailService, cfg.SendGrid.AlertEmail)
	cartService := service.NewCartService(cartRepo, backofficeClient, catalog, resolver, locks)
	cartHandler := handlers.NewCartHandler(cartService)
	checkoutService := service.NewCheckoutService(cartRepo, repos.Settlements, throttle, backofficeClient, notificationService, locks, cfg.Backoffice)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	settlementService := service.NewSettlementService(repos.Settlements, backofficeClient)
	settlementHandler := handlers.NewSettlementHandler(settlementService)
	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey))

	healthChecker, err := health.NewHealthHandler(cfg, version, backofficeClient)
	if err != nil {
		slog.Error("❌ Error registering health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("services initialized",
		slog.String("env", cfg.Env),
		slog.String("version", version),
		slog.String("promotions", cfg.Promotions.Mode),
		slog.String("backoffice", cfg.Backoffice.BaseURL),
	)

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/pos/cart", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("DELETE /api/v1/pos/cart", authMiddleware.Authenticate(cartHandler.ClearCart()))
	routerMux.HandleFunc("POST /api/v1/pos/cart/scan", authMiddleware.Authenticate(cartHandler.ScanItem()))
	routerMux.HandleFunc("POST /api/v1/pos/cart/items", authMiddleware.Authenticate(cartHandler.AddProduct()))
	routerMux.HandleFunc("PUT /api/v1/pos/cart/items/{productId}", authMiddleware.Authenticate(cartHandler.UpdateQuantity()))
	routerMux.HandleFunc("DELETE /api/v1/pos/cart/items/{productId}", authMiddleware.Authenticate(cartHandler.RemoveItem()))
	routerMux.HandleFunc("POST /api/v1/pos/cart/promotion", authMiddleware.Authenticate(cartHandler.ApplyPromotion()))
	routerMux.HandleFunc("DELETE /api/v1/pos/cart/promotion", authMiddleware.Authenticate(cartHandler.RemovePromotion()))
	routerMux.HandleFunc("PUT /api/v1/pos/cart/customer", authMiddleware.Authenticate(cartHandler.SelectCustomer()))
	routerMux.HandleFunc("POST /api/v1/pos/checkout", authMiddleware.Authenticate(checkoutHandler.CompleteSale()))
	routerMux.HandleFunc("GET /api/v1/settlements/warnings", authMiddleware.Authenticate(settlementHandler.ListWarnings()))
	routerMux.HandleFunc("POST /api/v1/settlements/warnings/{id}/retry", authMiddleware.Authenticate(settlementHandler.RetryWarning()))
	routerMux.Handle("GET /health", healthChecker.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)

	// Setup http server
	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("❌ Failed to start server", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracer shutdown encountered an issue", slog.String("error", err.Error()))
	}
}
