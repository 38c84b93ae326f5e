package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/crumb/internal/auth/http"
	"github.com/aussiebroadwan/crumb/internal/auth/service"
	"github.com/aussiebroadwan/crumb/internal/auth/store"
	"github.com/aussiebroadwan/crumb/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/crumb/pkg/cookiex"
	"github.com/aussiebroadwan/crumb/pkg/cryptox"
	"github.com/aussiebroadwan/crumb/pkg/jwtx"
	"github.com/aussiebroadwan/crumb/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger
	clock  jwtx.Clock

	db      store.Store
	tokens  *jwtx.Engine
	cookies *cookiex.Manager

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg:   cfg,
		clock: jwtx.SystemClock{},
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := cryptox.LoadPepper(cfg.PepperFile); err != nil {
		return nil, err
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	ctx := slogx.WithContext(context.Background(), app.logger)
	bootstrap := &service.BootstrapService{Store: app.db}
	if _, err := bootstrap.EnsureAdmin(ctx, cfg.BootstrapUsername, cfg.BootstrapPassword); err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to bootstrap admin user: %w", err)
	}

	tokens, err := jwtx.NewEngine(cfg.Engine(app.clock))
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize token engine: %w", err)
	}
	app.tokens = tokens
	app.cookies = cookiex.NewManager(tokens, cfg.Cookies())

	app.logger.Info("token engine ready",
		"issuer", cfg.Issuer,
		"access_ttl", cfg.AccessTTL,
		"refresh_ttl", cfg.RefreshTTL,
		"fingerprint", cfg.WithFingerprint,
		"host_prefix", cfg.PrefixEnabled,
	)

	app.initHTTP()
	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// Handler exposes the routed handler, mainly for tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(app.cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.tokens,
		app.cookies,
		app.clock,
		BuildVersion,
		app.db,
		app.logger,
	)
	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
