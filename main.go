// ABOUTME: Entry point for the robotaxi unit-economics backend service
// ABOUTME: Provides HTTP API for metric computation, curve sampling, and advisory relay

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

	"github.com/rsheldon/robotaxi-economics/cache"
	"github.com/rsheldon/robotaxi-economics/config"
	"github.com/rsheldon/robotaxi-economics/handlers"
	"github.com/rsheldon/robotaxi-economics/logger"
	"github.com/rsheldon/robotaxi-economics/middleware"
	"github.com/rsheldon/robotaxi-economics/services"
	"github.com/rsheldon/robotaxi-economics/store"
)

func main() {
	// Initialize structured logging
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting Robotaxi Economics Backend")
	if cfg.AdvisorConfigured() {
		slog.Info("Advisor configured", "model", cfg.AdvisorModel)
	} else {
		slog.Warn("Advisor not configured, running without commentary")
	}

	// Open the advisory result log
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to open advisory log", "error", err)
		os.Exit(1)
	}
	if cfg.DBPath == "" {
		slog.Info("Advisory log using in-memory database")
	} else {
		slog.Info("Advisory log opened", "path", cfg.DBPath)
	}

	// Initialize cache
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	c := cache.New(cacheTTL)
	slog.Info("Cache initialized", "ttl", cacheTTL)

	// Initialize advisor and handlers
	advisor := services.NewAdvisor(cfg.AnthropicAPIKey, cfg.AdvisorModel, cfg.AdvisorMaxTokens)
	h := handlers.NewHandler(cfg, c, st, advisor)

	// Rate limiters: nil disables the middleware
	var defaultLimiter, advisorLimiter *middleware.RateLimiter
	if cfg.RateLimitEnabled {
		defaultLimiter = middleware.NewRateLimiter(cfg.RateLimitDefault, time.Minute)
		advisorLimiter = middleware.NewRateLimiter(cfg.RateLimitAdvisor, time.Minute)
	}

	cors := middleware.CORS(cfg.CORSAllowedOrigins)

	// Register routes with middleware chain
	mux := http.NewServeMux()
	for _, route := range h.Routes() {
		limiter := defaultLimiter
		keyFunc := middleware.ClientIP
		if route.Advisor {
			limiter = advisorLimiter
			keyFunc = middleware.SessionKey
		}
		handler := middleware.Chain(route.Handler,
			middleware.LogRequest,
			cors,
			middleware.RateLimit(limiter, keyFunc),
		)
		mux.HandleFunc(route.Method+" "+route.Path, handler)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Shut down cleanly on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}
