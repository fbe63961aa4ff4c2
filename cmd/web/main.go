package main

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/meetslot/meetslot-web/internal/api/router"
	appconfig "github.com/meetslot/meetslot-web/internal/config"
	"github.com/meetslot/meetslot-web/internal/http/handlers"
	"github.com/meetslot/meetslot-web/internal/meetslot"
	"github.com/meetslot/meetslot-web/internal/observability/metrics"
	"github.com/meetslot/meetslot-web/internal/timezone"
	"github.com/meetslot/meetslot-web/internal/wizard"
	"github.com/meetslot/meetslot-web/pkg/logging"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel, cfg.Env)
	logger.Info("starting meetslot web server",
		"env", cfg.Env,
		"port", cfg.Port,
		"api_base_url", cfg.APIBaseURL,
	)

	// Initialize meetslot API client
	client := meetslot.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, logger.Component("meetslot"))
	client.SetSlotFallback(cfg.FallbackSlotsEnabled)

	// Timezone policy
	resolver := timezone.NewResolver(client, cfg.DefaultTimezone, cfg.PreferredTimezones, logger.Component("timezone"))

	// Wizard session store
	var store wizard.SessionStore
	if cfg.UseMemoryStore {
		logger.Warn("using in-memory session store; sessions will not survive restarts")
		store = wizard.NewMemoryStore()
	} else {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Error("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		store = wizard.NewRedisStore(rdb, cfg.SessionTTL, otel.Tracer("meetslot-web/wizard"))
	}

	// Metrics
	wizardMetrics := metrics.NewWizardMetrics(nil)

	// Initialize handlers
	scheduling := handlers.NewSchedulingHandler(client, resolver, store, wizardMetrics, cfg.BookingHorizonDays, logger.Component("scheduling"))
	auth := handlers.NewAuthHandler(client, logger.Component("auth"))
	dashboard := handlers.NewDashboardHandler(client, logger.Component("dashboard"))

	// Setup router
	routerCfg := &router.Config{
		Logger:             logger,
		Scheduling:         scheduling,
		Auth:               auth,
		Dashboard:          dashboard,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
