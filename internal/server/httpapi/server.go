// Package httpapi exposes the sold.bd JSON API over HTTP: public storefront
// reads, the auth/session endpoints, the first-admin ceremony and the gated
// back-office routes.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/soldbd/internal/logging"
	"github.com/dmitrijs2005/soldbd/internal/server/auth"
	"github.com/dmitrijs2005/soldbd/internal/server/models"
	"github.com/dmitrijs2005/soldbd/internal/server/services"
	"github.com/go-playground/validator/v10"
)

type Sessions interface {
	Login(ctx context.Context, identifier, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

type Bootstrapper interface {
	Bootstrap(ctx context.Context, token, identifier, password string) error
}

type Deals interface {
	ListActive(ctx context.Context) ([]*models.Deal, error)
	ListAll(ctx context.Context) ([]*models.Deal, error)
	Create(ctx context.Context, d *models.Deal) (*models.Deal, error)
	Update(ctx context.Context, d *models.Deal) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type SiteSettings interface {
	Get(ctx context.Context) (*models.SiteSettings, error)
	Update(ctx context.Context, s *models.SiteSettings) error
	MergeContent(ctx context.Context, patch map[string]json.RawMessage) (map[string]json.RawMessage, error)
}

type Signups interface {
	Add(ctx context.Context, email string) error
	List(ctx context.Context) ([]*models.EarlyAccessSignup, error)
}

type Storage interface {
	Get(ctx context.Context) (*models.StorageSettings, error)
	Put(ctx context.Context, provider string, settings map[string]any) error
	Upload(ctx context.Context, purpose, contentType string, body io.Reader) (*services.UploadResult, error)
}

type Status interface {
	Ping(ctx context.Context) bool
	Checks(ctx context.Context) []services.Check
}

// Services is everything the handlers call into.
type Services struct {
	Sessions     Sessions
	Bootstrap    Bootstrapper
	Deals        Deals
	SiteSettings SiteSettings
	Signups      Signups
	Storage      Storage
	Status       Status
}

type Options struct {
	CORSOrigin      string
	RateLimitAuth   string
	ShutdownTimeout time.Duration
}

type HTTPServer struct {
	address  string
	svc      Services
	gate     *Gate
	opts     Options
	validate *validator.Validate
	logger   logging.Logger
	now      func() time.Time
}

func NewHTTPServer(address string, l logging.Logger, svc Services, verifier TokenVerifier, opts Options) *HTTPServer {
	logger := l.With("module", "http_server")
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return &HTTPServer{
		address:  address,
		svc:      svc,
		gate:     NewGate(verifier, logger),
		opts:     opts,
		validate: newValidator(),
		logger:   logger,
		now:      time.Now,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests for up
// to the shutdown timeout.
func (s *HTTPServer) Run(ctx context.Context) error {
	handler, err := s.Router()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              s.address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// compile-time check
var _ TokenVerifier = (*auth.TokenIssuer)(nil)
