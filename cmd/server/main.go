package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/billadmin/backend/internal/application/billing"
	"github.com/billadmin/backend/internal/application/screen"
	"github.com/billadmin/backend/internal/domain/billing"
	"github.com/billadmin/backend/internal/domain/listing"
	"github.com/billadmin/backend/internal/infrastructure/auth"
	"github.com/billadmin/backend/internal/infrastructure/cache"
	"github.com/billadmin/backend/internal/infrastructure/config"
	"github.com/billadmin/backend/internal/infrastructure/dataset"
	"github.com/billadmin/backend/internal/infrastructure/logger"
	"github.com/billadmin/backend/internal/infrastructure/scheduler"
	"github.com/billadmin/backend/internal/infrastructure/storage"
	"github.com/billadmin/backend/internal/infrastructure/telemetry"
	"github.com/billadmin/backend/internal/interfaces/http/handler"
	"github.com/billadmin/backend/internal/interfaces/http/middleware"
	"github.com/billadmin/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Billing Admin API
//	@version		1.0
//	@description	Read-only list screens and overdue billing for the billing admin console
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.NewForEnvironment(cfg.App.Env, &logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting billing admin",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Telemetry
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.App.Name,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log.Named("telemetry"))
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.App.Name,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log.Named("telemetry"))
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	billingMetrics, err := telemetry.NewBillingMetrics(telemetry.BillingMetricsConfig{
		Meter:  meterProvider.Meter(telemetry.TracerName),
		Logger: log.Named("metrics"),
	})
	if err != nil {
		log.Fatal("Failed to create billing metrics", zap.Error(err))
	}

	// Load the record dataset
	src, err := storage.NewSnapshotSource(cfg.Data, log.Named("storage"))
	if err != nil {
		log.Fatal("Failed to create data source", zap.Error(err))
	}
	data, err := dataset.Open(ctx, src, log.Named("dataset"))
	if err != nil {
		log.Fatal("Failed to load dataset", zap.String("location", src.Location()), zap.Error(err))
	}

	refresher, err := scheduler.NewRefresher(scheduler.RefresherConfig{
		Interval: cfg.Data.RefreshInterval,
	}, data, log.Named("refresher"))
	if err != nil {
		log.Fatal("Failed to create dataset refresher", zap.Error(err))
	}
	refresher.SetMetrics(billingMetrics)
	if err := refresher.Start(ctx); err != nil {
		log.Fatal("Failed to start dataset refresher", zap.Error(err))
	}
	if meterProvider.IsEnabled() {
		billingMetrics.StartPeriodicCollection(ctx, data, cfg.Telemetry.MetricsInterval)
	}

	locale, err := language.Parse(cfg.Listing.Locale)
	if err != nil {
		log.Warn("Unknown listing locale, using English", zap.String("locale", cfg.Listing.Locale), zap.Error(err))
		locale = language.English
	}

	// Application services
	calc := billing.NewCalculator(cfg.Billing.LateFeeRate)
	screens := screen.NewService(data, calc, screen.Options{
		PageSize: cfg.Listing.PageSize,
		DefaultSort: listing.SortSpec{
			Field:     cfg.Listing.DefaultSortField,
			Direction: listing.Direction(cfg.Listing.DefaultSortDirection),
		},
		Locale:       locale,
		SearchFields: cfg.Listing.SearchFields,
	}, log.Named("screen"))
	screens.SetMetrics(billingMetrics)
	overdue := billingapp.NewOverdueService(data, calc, log.Named("billing"))
	overdue.SetMetrics(billingMetrics)

	summaryCache, err := cache.NewStoreFactory(cfg.Cache, cache.WithLogger(log.Named("cache"))).CreateStore()
	if err != nil {
		log.Fatal("Failed to create summary cache", zap.Error(err))
	}
	overdue.SetCache(summaryCache, cfg.Cache.TTL, data.Version)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Set Gin mode based on environment
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

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins

	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.App.Name,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig))

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log.Named("auth")

	router.RegisterAPI(engine, router.Handlers{
		Lists:   handler.NewListHandler(screens),
		Billing: handler.NewBillingHandler(overdue),
		System:  handler.NewSystemHandler(data, version),
	}, middleware.JWTAuthMiddlewareWithConfig(jwtConfig), middleware.SpanAttributes())

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// SIGHUP reloads the dataset; SIGINT and SIGTERM shut down
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	for sig := range signals {
		if sig != syscall.SIGHUP {
			break
		}
		// The refresher logs and counts failures
		_ = refresher.TriggerNow(ctx)
	}
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	billingMetrics.Stop()
	if err := refresher.Stop(shutdownCtx); err != nil {
		log.Warn("Dataset refresher did not stop in time", zap.Error(err))
	}
	stop()
	if err := summaryCache.Close(); err != nil {
		log.Warn("Failed to close summary cache", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush traces", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
