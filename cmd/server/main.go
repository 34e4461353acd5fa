package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appbilling "github.com/subhub/backend/internal/application/billing"
	"github.com/subhub/backend/internal/domain/billing"
	"github.com/subhub/backend/internal/domain/shared"
	"github.com/subhub/backend/internal/infrastructure/auth"
	"github.com/subhub/backend/internal/infrastructure/cache"
	"github.com/subhub/backend/internal/infrastructure/config"
	"github.com/subhub/backend/internal/infrastructure/logger"
	"github.com/subhub/backend/internal/infrastructure/persistence"
	"github.com/subhub/backend/internal/infrastructure/persistence/memstore"
	"github.com/subhub/backend/internal/infrastructure/telemetry"
	"github.com/subhub/backend/internal/interfaces/http/handler"
	"github.com/subhub/backend/internal/interfaces/http/middleware"
	"github.com/subhub/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting SubHub Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Select the backing store. The in-memory store keeps data only for the
	// lifetime of the process and suits local development.
	var (
		store billing.Store
		db    *persistence.Database
	)
	switch cfg.Database.Driver {
	case "memory":
		store = memstore.New()
		log.Info("Using in-memory store")
	default:
		db, err = persistence.NewDatabase(&cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Error closing database", zap.Error(err))
			}
		}()

		gormStore := persistence.NewGormStore(db.DB)
		if err := gormStore.EnsureCounters(ctx); err != nil {
			log.Fatal("Failed to initialize billing counters", zap.Error(err))
		}
		store = gormStore
		log.Info("Database connected successfully")
	}

	planCache, err := cache.NewPlanCacheFactory(cfg.Cache, cfg.Redis, cache.WithLogger(log)).CreateCache()
	if err != nil {
		log.Fatal("Failed to initialize plan cache", zap.Error(err))
	}
	if closer, ok := planCache.(io.Closer); ok {
		defer func() {
			_ = closer.Close()
		}()
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer)

	clock := shared.SystemClock{}
	owner := billing.AccountID(cfg.Billing.OwnerAccount)

	planService := appbilling.NewPlanService(store, clock, owner, planCache, log)
	subscriptionService := appbilling.NewSubscriptionService(store, clock, log)
	adminService := appbilling.NewAdminService(store, clock, owner, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.SpanErrorMarker())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	var pinger handler.Pinger
	if db != nil {
		pinger = db
	}

	router.NewRouter(engine).
		Register(handler.NewSystemHandler(pinger)).
		Register(handler.NewPlanHandler(planService)).
		Register(handler.NewSubscriptionHandler(subscriptionService)).
		Register(handler.NewAdminHandler(adminService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
