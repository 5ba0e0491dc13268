package main

import (
	"context"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/duynhne/fishfile-service/config"
	"github.com/duynhne/fishfile-service/internal/auth"
	database "github.com/duynhne/fishfile-service/internal/core"
	"github.com/duynhne/fishfile-service/internal/core/repository"
	"github.com/duynhne/fishfile-service/internal/logger"
	logicv1 "github.com/duynhne/fishfile-service/internal/logic/v1"
	"github.com/duynhne/fishfile-service/internal/weather"
	v1 "github.com/duynhne/fishfile-service/internal/web/v1"
	"github.com/duynhne/fishfile-service/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		panic("Configuration validation failed: " + err.Error())
	}

	// Initialize Zerolog with LOG_LEVEL from config
	logger.Setup(cfg.Logging.Level)

	log.Info().
		Str("service", cfg.Service.Name).
		Str("version", cfg.Service.Version).
		Str("env", cfg.Service.Env).
		Str("port", cfg.Service.Port).
		Msg("Service starting")

	// Initialize OpenTelemetry tracing
	var tp interface{ Shutdown(context.Context) error }
	if cfg.Tracing.Enabled {
		provider, err := middleware.InitTracing(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize tracing")
		} else {
			tp = provider
			log.Info().
				Str("endpoint", cfg.Tracing.Endpoint).
				Float64("sample_rate", cfg.Tracing.SampleRate).
				Msg("Tracing initialized")
		}
	} else {
		log.Info().Msg("Tracing disabled (TRACING_ENABLED=false)")
	}

	// Initialize Pyroscope profiling
	if cfg.Profiling.Enabled {
		if err := middleware.InitProfiling(cfg); err != nil {
			log.Warn().Err(err).Msg("Failed to initialize profiling")
		} else {
			log.Info().
				Str("endpoint", cfg.Profiling.Endpoint).
				Msg("Profiling initialized")
			defer middleware.StopProfiling()
		}
	} else {
		log.Info().Msg("Profiling disabled (PROFILING_ENABLED=false)")
	}

	// Initialize database connection pool (pgx) and schema
	pool, err := database.Connect(context.Background(), cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()
	log.Info().Int32("max_conns", cfg.Database.MaxConns).Msg("Database connection pool established")

	if err := database.Migrate(context.Background(), pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database schema")
	}

	// Wire repositories, services and handlers
	users := repository.NewUserRepository(pool)
	locations := repository.NewLocationRepository(pool)
	records := repository.NewRecordRepository(pool)

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	userService, err := logicv1.NewUserService(users, tokens, cfg.Auth.BcryptWorkFactor)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create user service")
	}
	weatherService := logicv1.NewWeatherService(locations, weather.NewAggregator(weather.NewClient(cfg.Weather, nil)))

	handler := v1.NewHandler(
		userService,
		logicv1.NewLocationService(locations),
		logicv1.NewRecordService(records, locations),
		weatherService,
	)

	r := gin.New()
	r.Use(gin.Recovery())

	var isShuttingDown atomic.Bool

	// Tracing middleware
	r.Use(middleware.TracingMiddleware(cfg.Service.Name))

	// Logging middleware
	r.Use(middleware.LoggingMiddleware())

	// Prometheus middleware
	r.Use(middleware.PrometheusMiddleware())

	// Bearer token, if any, becomes the request identity
	r.Use(middleware.Authenticate(tokens))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness check
	// Returns 503 once shutdown has started, to drain traffic before HTTP shutdown.
	r.GET("/ready", func(c *gin.Context) {
		if isShuttingDown.Load() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
			return
		}
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database_unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.RegisterRoutes(&r.RouterGroup)

	srv := &http.Server{
		Addr:              ":" + cfg.Service.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Service.Port).Msg("Starting fishfile service")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")

	// Fail readiness first and wait for it to propagate.
	isShuttingDown.Store(true)
	drainDelay := cfg.GetReadinessDrainDelayDuration()
	if drainDelay > 0 {
		log.Info().Dur("delay", drainDelay).Msg("Readiness drain delay started")
		time.Sleep(drainDelay)
		log.Info().Dur("delay", drainDelay).Msg("Readiness drain delay completed")
	}

	shutdownTimeout := cfg.GetShutdownTimeoutDuration()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info().Dur("timeout", shutdownTimeout).Msg("Shutting down server...")

	// 1. Shutdown HTTP server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		log.Info().Msg("HTTP server shutdown complete")
	}

	// 2. Close database connections
	pool.Close()
	log.Info().Msg("Database pool closed")

	// 3. Shutdown tracer
	if tp != nil {
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Tracer shutdown error")
		} else {
			log.Info().Msg("Tracer shutdown complete")
		}
	}

	log.Info().Msg("Graceful shutdown complete")
}
