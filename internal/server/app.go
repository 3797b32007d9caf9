// Package server wires configuration, the database, services and the HTTP
// API together and runs them until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/soldbd/internal/buildinfo"
	"github.com/dmitrijs2005/soldbd/internal/common"
	"github.com/dmitrijs2005/soldbd/internal/cryptox"
	"github.com/dmitrijs2005/soldbd/internal/logging"
	"github.com/dmitrijs2005/soldbd/internal/server/auth"
	"github.com/dmitrijs2005/soldbd/internal/server/config"
	"github.com/dmitrijs2005/soldbd/internal/server/httpapi"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/soldbd/internal/server/services"
	"github.com/dmitrijs2005/soldbd/internal/server/storage"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *httpapi.HTTPServer
}

// NewApp opens the pool, applies migrations and builds every service.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	db.SetMaxOpenConns(c.DBMaxOpenConns)

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	tokens, err := auth.NewTokenIssuer(c.JWTSecret, c.AccessTokenTTL)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug(ctx, "token issuer ready", "access_ttl", tokens.TTL().String(), "refresh_ttl", c.RefreshTokenTTL.String())

	hasher, err := cryptox.NewHasher(cryptox.Algorithm(c.PasswordHasher), c.BcryptCost)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", common.ErrConfiguration, err)
	}

	sessions, err := services.NewSessionService(db, m, tokens, c, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	svc := httpapi.Services{
		Sessions:     sessions,
		Bootstrap:    services.NewBootstrapService(db, m, c.AdminBootstrapToken, hasher, logger),
		Deals:        services.NewDealService(db, m),
		SiteSettings: services.NewSiteSettingsService(db, m),
		Signups:      services.NewSignupService(db, m),
		Storage:      services.NewStorageService(db, m, storage.NewS3Uploader(), logger),
		Status:       services.NewStatusService(db, c.DatabaseDSN),
	}

	srv := httpapi.NewHTTPServer(c.Address, logger, svc, tokens, httpapi.Options{
		CORSOrigin:      c.CORSOrigin,
		RateLimitAuth:   c.RateLimitAuth,
		ShutdownTimeout: c.ShutdownTimeout,
	})

	return &App{config: c, logger: logger, db: db, http: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a signal arrives or the server fails, then closes the pool.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "version", buildinfo.Version())

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close failed", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
