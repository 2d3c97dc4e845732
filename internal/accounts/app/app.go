package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/userdock/userdock/internal/accounts/http"
	"github.com/userdock/userdock/internal/accounts/service"
	"github.com/userdock/userdock/internal/accounts/store"
	"github.com/userdock/userdock/internal/accounts/store/drivers/mongo"
	"github.com/userdock/userdock/internal/accounts/store/drivers/sqlite"
	"github.com/userdock/userdock/pkg/jwtx"
	"github.com/userdock/userdock/pkg/slogx"
)

// BuildVersion is stamped at build time via ldflags.
var BuildVersion = "v0.1.0"

// Application encapsulates the account service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	signer *jwtx.HS256

	// Services
	authService *service.AuthService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "userdock",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.UsesDefaultSecret() && cfg.Env != "dev" {
		app.logger.Warn("running on the development signing secret; set JWT_SECRET")
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}

	app.signer = jwtx.NewHS256([]byte(cfg.JWTSecret))

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("account service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
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
	app.logger.Info("shutting down account service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Close the store connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
		return err
	}

	app.logger.Info("account service stopped")
	return nil
}

// initStore opens the credential store named by the DSN and brings its
// schema (or indexes) up to date.
func (app *Application) initStore() error {
	var (
		db  store.Store
		err error
	)

	if store.IsMongoDSN(app.cfg.StoreDSN) {
		db, err = mongo.NewStore(app.cfg.StoreDSN)
	} else {
		db, err = sqlite.NewStore(app.cfg.StoreDSN)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply store migrations: %w", err)
	}

	app.logger.Info("store ready", "dsn_scheme", schemeOf(app.cfg.StoreDSN))
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:    app.db,
		Signer:   app.signer,
		Issuer:   app.cfg.Issuer,
		TokenTTL: jwtx.DefaultSessionTTL,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.db,
		app.logger,
		app.cfg.CORSOrigins,
		BuildVersion,
	)

	router.AuthService = app.authService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

func schemeOf(dsn string) string {
	if store.IsMongoDSN(dsn) {
		return "mongodb"
	}
	return "sqlite"
}
