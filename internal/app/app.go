// Package app wires configuration, logging, the dataset store, services,
// and the HTTP router into a runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rapaugustino/global-internet-usage/internal/config"
	"github.com/rapaugustino/global-internet-usage/internal/dataset"
	"github.com/rapaugustino/global-internet-usage/internal/errors"
	"github.com/rapaugustino/global-internet-usage/internal/infrastructure"
	customMiddleware "github.com/rapaugustino/global-internet-usage/internal/middleware"
	"github.com/rapaugustino/global-internet-usage/internal/services"
	handlers "github.com/rapaugustino/global-internet-usage/internal/transport/http"
)

const AppName = "Global Internet Usage Dashboard"

// Build information, overridden at link time.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Application is the main application container.
type Application struct {
	Config           *config.Config
	Router           *chi.Mux
	Server           *http.Server
	Store            *dataset.Store
	DashboardService *services.DashboardService
	HealthService    *services.HealthService
	Logger           *slog.Logger
	Registry         *prometheus.Registry
}

// NewApplication creates an application from configuration and environment.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	app := &Application{
		Config: cfg,
		Logger: logger,
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices builds the dataset store and the service layer.
func (a *Application) initializeServices() {
	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a.Store = dataset.NewStore(dataset.Config{
		UsageFile: a.Config.Dataset.UsagePath(),
		EconFile:  a.Config.Dataset.EconPath(),
		FirstYear: a.Config.Dataset.FirstYear,
		LastYear:  a.Config.Dataset.LastYear,
	}, a.Logger)

	a.DashboardService = services.NewDashboardService(a.Store, a.Logger)
	a.HealthService = services.NewHealthService(a.Store, a.Logger, Version, BuildTime)
}

// setupRouter configures the HTTP router with the full middleware chain and
// all API routes.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	httpMetrics := customMiddleware.NewMetrics(a.Registry)

	r.Group(func(r chi.Router) {
		r.Use(httpMetrics.Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.Timeout(a.Config.Server.ReadTimeout, a.Logger))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.Compress(5))
		r.Use(customMiddleware.CORS(a.getCORSConfig()))

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
	})

	// Metrics endpoint outside the middleware group to keep scrapes cheap.
	r.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))

	a.Router = r
}

// setupAPIRoutes mounts the API handlers.
func (a *Application) setupAPIRoutes(r chi.Router) {
	errorHandler := errors.NewErrorHandler(a.Logger, false)

	// Set before Route so mounted subrouters inherit the RFC 7807 handlers.
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.GetVersion)

		exportHandler := handlers.NewExportHandler(a.DashboardService, a.Logger, errorHandler)
		r.Mount("/export", exportHandler.Routes())

		chartHandler := handlers.NewChartHandler(a.DashboardService, a.Logger, errorHandler)
		r.Mount("/charts", chartHandler.Routes())

		// Dashboard routes live at the /api root (e.g. /api/countries).
		dashboardHandler := handlers.NewDashboardHandler(a.DashboardService, a.Logger, errorHandler)
		dashboardHandler.RegisterRoutes(r)
	})
}

// getCORSConfig returns the CORS configuration from settings.
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	cfg := customMiddleware.CORSConfig{
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
		Logger:         a.Logger,
	}
	if a.Config.Security.EnableCORS {
		cfg.AllowedOrigins = a.Config.Security.AllowedOrigins
	}
	return cfg
}

// createServer creates the HTTP server.
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start warms the dataset snapshot and starts serving. A failed warm-up is
// logged, not fatal: the store retries on first request.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	if _, err := a.Store.Records(ctx); err != nil {
		a.Logger.WarnContext(ctx, "dataset warm-up failed, will retry on demand",
			slog.String("error", err.Error()))
	}

	go func() {
		a.Logger.InfoContext(ctx, "HTTP server listening",
			slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	return nil
}

// Run starts the application and blocks until a shutdown signal arrives.
func (a *Application) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	return a.Stop(context.Background())
}

// Stop gracefully stops the application.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Logger.InfoContext(ctx, "Application stopped")
	return nil
}
