package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	brokerapp "github.com/obpp/dashboard/internal/application/broker"
	feedapp "github.com/obpp/dashboard/internal/application/feed"
	listingapp "github.com/obpp/dashboard/internal/application/listing"
	"github.com/obpp/dashboard/internal/infrastructure/config"
	"github.com/obpp/dashboard/internal/infrastructure/logger"
	"github.com/obpp/dashboard/internal/infrastructure/openfigi"
	"github.com/obpp/dashboard/internal/infrastructure/session"
	"github.com/obpp/dashboard/internal/infrastructure/spreadsheet"
	"github.com/obpp/dashboard/internal/infrastructure/telemetry"
	"github.com/obpp/dashboard/internal/interfaces/http/handler"
	"github.com/obpp/dashboard/internal/interfaces/http/middleware"
	"github.com/obpp/dashboard/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	// Telemetry comes up before anything makes outbound calls
	tp, err := telemetry.Setup(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
		ExportMetrics:     cfg.Telemetry.ExportMetrics,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
		ExportLogs:        cfg.Telemetry.ExportLogs,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log = tp.BridgeLogger(log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting OBPP dashboard",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
		zap.String("openfigi_api_key", cfg.OpenFIGI.MaskedAPIKey()),
	)

	instruments, err := telemetry.NewInstruments()
	if err != nil {
		log.Fatal("Failed to create metric instruments", zap.Error(err))
	}

	// Outbound adapters
	fetcher := spreadsheet.NewFetcher(spreadsheet.FetcherConfig{
		Timeout:     cfg.Fetch.Timeout,
		MaxBodySize: cfg.Fetch.MaxBodySize,
	}, spreadsheet.WithInstruments(instruments))

	figi, err := openfigi.NewClient(&openfigi.Config{
		BaseURL: cfg.OpenFIGI.BaseURL,
		APIKey:  cfg.OpenFIGI.APIKey,
		Timeout: cfg.OpenFIGI.Timeout,
	})
	if err != nil {
		log.Fatal("Invalid OpenFIGI configuration", zap.Error(err))
	}

	// Application services
	resolver := listingapp.NewResolver(figi, listingapp.ResolverConfig{
		BatchSize:            cfg.OpenFIGI.BatchSize,
		MaxConcurrentBatches: cfg.OpenFIGI.MaxConcurrentBatches,
		RateLimit:            cfg.OpenFIGI.RateLimit,
		RateBurst:            cfg.OpenFIGI.RateBurst,
	}, listingapp.WithInstruments(instruments))
	processor := listingapp.NewProcessor(resolver, openUpload)

	brokers := brokerapp.NewService(fetcher, brokerapp.Config{
		URL:       cfg.Broker.URL,
		HeaderRow: cfg.Broker.HeaderRow,
	})
	feeds := feedapp.NewService(fetcher, feedapp.Config{
		HomeURL:       cfg.Feeds.HomeURL,
		ComplianceURL: cfg.Feeds.ComplianceURL,
	})

	sessions := session.NewStore(session.Config{
		TTL:             cfg.Session.TTL,
		CleanupInterval: cfg.Session.CleanupInterval,
	})
	defer func() {
		_ = sessions.Close()
	}()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. Tracing - Server span per request
	// 8. Session - Visitor session and its broker list slot
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tp.IsEnabled(),
	}))
	engine.Use(middleware.Session(sessions, middleware.SessionConfig{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	}))
	engine.Use(middleware.SpanAttributes())

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(sessions))

	router.Mount(engine, router.Handlers{
		System: handler.NewSystemHandler(cfg.App.Name, version),
		Pages:  handler.NewPageHandler(),
		Feed:   handler.NewFeedHandler(feeds),
		ISIN:   handler.NewISINHandler(processor),
		Broker: handler.NewBrokerHandler(brokers),
	}, router.WithAPIVersion("v1"))

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

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tp.Shutdown(ctx); err != nil {
		log.Error("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// openUpload opens an uploaded workbook for augmentation
func openUpload(r io.Reader) (listingapp.Workbook, error) {
	wb, err := spreadsheet.OpenWorkbook(r)
	if err != nil {
		return nil, err
	}
	return wb, nil
}

// healthHandler reports liveness and the number of live sessions
func healthHandler(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"sessions": sessions.Size(),
		})
	}
}
