package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	customerapp "github.com/banking/customer-service/internal/application/customer"
	"github.com/banking/customer-service/internal/infrastructure/cache"
	"github.com/banking/customer-service/internal/infrastructure/config"
	"github.com/banking/customer-service/internal/infrastructure/event"
	"github.com/banking/customer-service/internal/infrastructure/logger"
	"github.com/banking/customer-service/internal/infrastructure/persistence"
	"github.com/banking/customer-service/internal/infrastructure/telemetry"
	"github.com/banking/customer-service/internal/interfaces/http/handler"
	"github.com/banking/customer-service/internal/interfaces/http/middleware"
	"github.com/banking/customer-service/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.FromAppConfig(cfg.App, cfg.Log))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry export. Disabled signals keep the global no-op providers.
	tel, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:       cfg.Telemetry.ServiceName,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		TracesEnabled:     cfg.Telemetry.Enabled,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		MetricsEnabled:    cfg.Telemetry.MetricsEnabled,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log = tel.BridgeLogger(log, logger.ParseLevel(cfg.Log.Level))

	log.Info("Starting customer service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithSQL(cfg.Telemetry.DBLogFullSQL),
	)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.DBTraceEnabled && tel.TracingEnabled()
	dbTracing.LogFullSQL = cfg.Telemetry.DBLogFullSQL
	dbTracing.SlowQueryThresh = cfg.Telemetry.DBSlowQueryThresh
	dbTracing.DBName = cfg.Database.DBName
	if err := telemetry.NewDBTracingPlugin(dbTracing, log).Register(db.DB); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Cache
	cacheBackend, err := cache.NewCustomerCacheFactory(cfg.Redis, cfg.Cache, cache.WithLogger(log)).CreateCache()
	if err != nil {
		log.Fatal("Failed to initialize customer cache", zap.Error(err))
	}
	defer func() {
		if err := cacheBackend.Close(); err != nil {
			log.Error("Error closing customer cache", zap.Error(err))
		}
	}()

	meter := tel.Meter(telemetry.TracerName)
	customerMetrics, err := telemetry.NewCustomerMetrics(telemetry.CustomerMetricsConfig{Meter: meter, Logger: log})
	if err != nil {
		log.Warn("Customer metrics disabled", zap.Error(err))
	}
	customerCache := cache.NewInstrumentedCustomerCache(cacheBackend, customerMetrics)

	// Events
	serializer := event.NewEventSerializer()
	event.RegisterCustomerEvents(serializer)
	eventBus := event.NewInMemoryEventBus(log, event.WithSerializer(serializer))
	eventBus.Subscribe(customerapp.NewAuditHandler(log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	customerService := customerapp.NewCustomerService(
		persistence.NewGormCustomerRepository(db.DB),
		customerCache,
		log,
		customerapp.WithCacheTTL(cfg.Cache.TTL),
		customerapp.WithEventPublisher(eventBus),
		customerapp.WithMetrics(customerMetrics),
	)

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Failed to set trusted proxies", zap.Error(err))
	}

	var httpMeter metric.Meter
	if tel.MetricsEnabled() {
		httpMeter = tel.Meter("http.server")
	}
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	// RequestID runs first so recovery, spans and access logs all carry it
	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tel.TracingEnabled(),
		}),
		middleware.SpanAttributes(),
		logger.GinMiddleware(log),
		middleware.HTTPMetrics(httpMeter, log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsConfig),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	healthHandler := handler.NewHealthHandler(version, map[string]handler.Pinger{
		"database": db,
		"cache":    cacheBackend,
	})
	router.NewRouter(engine).
		RegisterRoot(healthHandler).
		Register(handler.NewCustomerHandler(customerService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serveErr:
		log.Error("Server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Event bus did not drain", zap.Error(err))
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		log.Error("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited")
}
