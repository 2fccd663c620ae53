package main

import (
	"context"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/supabase-community/supabase-go"

	"github.com/lorehq/lore-web/config"
	"github.com/lorehq/lore-web/internal/chat"
	"github.com/lorehq/lore-web/internal/core/gateway"
	"github.com/lorehq/lore-web/internal/core/repository"
	logicv1 "github.com/lorehq/lore-web/internal/logic/v1"
	"github.com/lorehq/lore-web/internal/pagestate"
	"github.com/lorehq/lore-web/internal/web/static"
	"github.com/lorehq/lore-web/internal/web/templates"
	webv1 "github.com/lorehq/lore-web/internal/web/v1"
	"github.com/lorehq/lore-web/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		panic("Configuration validation failed: " + err.Error())
	}

	middleware.SetupLogging(cfg.Logging.Level)

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

	// Hosted auth/data/storage backend
	sb, err := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create supabase client")
	}
	log.Info().Str("url", cfg.Supabase.URL).Msg("Supabase client ready")

	// Generative-language backend
	model, err := gateway.NewChatModel(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create gemini client")
	}
	log.Info().Str("model", cfg.Gemini.Model).Msg("Gemini client ready")

	// Conversation store (memory, or redis when configured)
	var storeOpts []chat.StoreOption
	if cfg.Chat.Store == "redis" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Chat.RedisAddr})
		storeOpts = append(storeOpts,
			chat.WithRedisClient(rdb),
			chat.WithRedisTTL(cfg.GetRedisTTLDuration()),
		)
	}
	convStore, err := chat.NewStore(chat.StoreType(cfg.Chat.Store), storeOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create conversation store")
	}
	log.Info().Str("driver", cfg.Chat.Store).Msg("Conversation store ready")

	// Wire services
	pages := pagestate.NewStore()
	authGateway := gateway.NewAuthGateway(sb)
	profiles := repository.NewProfileRepository(sb)
	blobs := repository.NewBlobStore(sb)

	handler := webv1.NewHandler(
		logicv1.NewPageService(pages, authGateway),
		logicv1.NewAuthService(authGateway, pages),
		logicv1.NewProfileService(profiles, blobs, cfg.Supabase.AvatarBucket),
		logicv1.NewChatService(convStore, model),
		logicv1.NewVisionService(model),
	)

	if cfg.Service.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	var isShuttingDown atomic.Bool

	r.Use(middleware.TracingMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.PrometheusMiddleware())
	r.Use(cors.Default())

	// Rendered site
	tmpl, err := templates.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse templates")
	}
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", static.FileSystem())
	handler.RegisterPages(r)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Readiness check
	// Returns 503 once shutdown has started, to drain traffic before HTTP shutdown.
	r.GET("/ready", func(c *gin.Context) {
		if isShuttingDown.Load() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1
	handler.RegisterRoutes(r.Group("/api/v1"))

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Service.Port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Service.Port).Msg("Starting lore-web")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")

	// Fail readiness first and wait for propagation before stopping HTTP.
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

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		log.Info().Msg("HTTP server shutdown complete")
	}

	if err := convStore.Close(); err != nil {
		log.Error().Err(err).Msg("Conversation store close error")
	} else {
		log.Info().Msg("Conversation store closed")
	}

	if tp != nil {
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Tracer shutdown error")
		} else {
			log.Info().Msg("Tracer shutdown complete")
		}
	}

	log.Info().Msg("Graceful shutdown complete")
}
