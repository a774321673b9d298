package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpapi "github.com/sou2aq/platform/internal/platform/http"
	"github.com/sou2aq/platform/internal/platform/service"
	"github.com/sou2aq/platform/internal/platform/store"
	"github.com/sou2aq/platform/internal/platform/store/drivers/sqlite"
	"github.com/sou2aq/platform/pkg/jwtx"
	"github.com/sou2aq/platform/pkg/mailx"
	"github.com/sou2aq/platform/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application wires the platform service together: storage, token signing,
// business services, and the HTTP server.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	authService         *service.AuthService
	sessionService      *service.SessionService
	registrationService *service.RegistrationService
	userService         *service.UserService
	siteService         *service.SiteService
	articleService      *service.ArticleService
	mapService          *service.MapService
	ownershipService    *service.OwnershipService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "platform-api",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("platform api starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down platform api...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("platform api stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
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

// initServices initializes all business logic services.
func (app *Application) initServices() error {
	accessSigner, err := jwtx.NewSignerHS256([]byte(app.cfg.AccessSecret))
	if err != nil {
		return fmt.Errorf("access token signer: %w", err)
	}
	refreshSigner, err := jwtx.NewSignerHS256([]byte(app.cfg.RefreshSecret))
	if err != nil {
		return fmt.Errorf("refresh token signer: %w", err)
	}

	audience := []string{app.cfg.Audience}
	refreshVerifier := jwtx.NewVerifierHS256([]byte(app.cfg.RefreshSecret), app.cfg.Issuer, audience)

	app.sessionService = &service.SessionService{
		Store: app.db,
		TTL:   app.cfg.RefreshTTL,
	}

	app.authService = &service.AuthService{
		Store:           app.db,
		Sessions:        app.sessionService,
		Logger:          app.logger,
		AccessSigner:    accessSigner,
		RefreshSigner:   refreshSigner,
		RefreshVerifier: refreshVerifier,
		Issuer:          app.cfg.Issuer,
		Audience:        audience,
		AccessTTL:       app.cfg.AccessTTL,
		RefreshTTL:      app.cfg.RefreshTTL,
	}

	app.registrationService = service.NewRegistrationService(app.db, app.newMailer(), app.logger)
	app.registrationService.OTPTTL = app.cfg.OTPTTL

	app.userService = &service.UserService{Store: app.db}
	app.siteService = &service.SiteService{Store: app.db}
	app.articleService = &service.ArticleService{Store: app.db}
	app.mapService = &service.MapService{Store: app.db}
	app.ownershipService = &service.OwnershipService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)

	return nil
}

// newMailer returns the Resend sender when an API key is configured, and the
// log-only sender otherwise so dev environments work without credentials.
func (app *Application) newMailer() mailx.Sender {
	if app.cfg.ResendAPIKey == "" {
		app.logger.Warn("RESEND_API_KEY not set, verification emails will only be logged")
		return &mailx.LogSender{Logger: app.logger}
	}

	sender, err := mailx.NewResendSender(app.cfg.ResendAPIKey, app.cfg.EmailFrom)
	if err != nil {
		app.logger.Warn("resend sender unavailable, falling back to log sender", "error", err)
		return &mailx.LogSender{Logger: app.logger}
	}
	return sender
}

// initHTTP builds the router and HTTP server.
func (app *Application) initHTTP() {
	accessVerifier := jwtx.NewVerifierHS256(
		[]byte(app.cfg.AccessSecret),
		app.cfg.Issuer,
		[]string{app.cfg.Audience},
	)

	app.router = httpapi.NewRouter(accessVerifier, BuildVersion, app.db, app.logger)
	app.router.AuthService = app.authService
	app.router.SessionService = app.sessionService
	app.router.RegistrationService = app.registrationService
	app.router.UserService = app.userService
	app.router.SiteService = app.siteService
	app.router.ArticleService = app.articleService
	app.router.MapService = app.mapService
	app.router.OwnershipService = app.ownershipService
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}
