package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardoctor/auth"
	"cardoctor/booking"
	"cardoctor/catalog"
	"cardoctor/config"
	"cardoctor/db"
	"cardoctor/logger"
	"cardoctor/middleware"
	"cardoctor/mq"
	"cardoctor/ratelim"
	"cardoctor/rdx"
	"cardoctor/routes"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found; using system environment")
	}
	logger.SetDefault(logger.New(os.Getenv("LOG_LEVEL")))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := db.Connect(connectCtx, db.Options{
		URI:         cfg.MongoConnectionString(),
		Database:    cfg.DBName,
		MaxPoolSize: cfg.MongoMaxPool,
	})
	cancel()
	if err != nil {
		logger.Error("mongodb unavailable", "error", err)
		os.Exit(1)
	}
	// The client stays open for the life of the process.
	logger.Info("pinged deployment; connected to mongodb", "database", cfg.DBName)

	var events booking.EventPublisher
	if cfg.RedisAddr != "" {
		redisCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		conn, err := rdx.Connect(redisCtx, rdx.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		cancel()
		if err != nil {
			logger.Warn("redis unavailable; booking events disabled", "error", err)
		} else {
			events = mq.NewEmitter(conn)
			logger.Info("publishing booking events", "channel", mq.BookingChannel)
		}
	}

	tokens := auth.NewTokenService(cfg.TokenSecret, cfg.TokenTTL)

	bookingOpts := booking.Options{
		Timeout:         cfg.StoreTimeout,
		ScopeUnfiltered: cfg.ScopeUnfilteredBookings,
	}
	if cfg.BookingSchemaValidation {
		bookingOpts.Validator = booking.NewValidator()
	}

	var limiter *ratelim.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = ratelim.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	router := routes.New(routes.Deps{
		Verifier:                tokens,
		Auth:                    auth.NewHandler(tokens),
		Catalog:                 catalog.NewHandler(catalog.NewCatalog(store.Services), cfg.StoreTimeout),
		Bookings:                booking.NewHandler(booking.NewRepository(store.Bookings, events), bookingOpts),
		Limiter:                 limiter,
		RequireAuthForMutations: cfg.RequireAuthForMutations,
	})

	// CORS → security headers → request id → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(router)

	handler := middleware.RequestID(middleware.Logging(middleware.SecurityHeaders(corsHandler)))

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      cfg.StoreTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		logger.Info("app listening", "addr", cfg.Addr(), "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
