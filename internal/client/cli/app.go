package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/soldbd/internal/client/api"
	"github.com/dmitrijs2005/soldbd/internal/client/config"
	"github.com/dmitrijs2005/soldbd/internal/client/session"
	"github.com/dmitrijs2005/soldbd/internal/filex"
)

// API is the part of api.Client the commands use.
type API interface {
	Call(ctx context.Context, function string, opts api.CallOptions, out any) error
	Login(ctx context.Context, identifier, password string) error
	Logout(ctx context.Context) error
}

type App struct {
	api     API
	session api.Session
	reader  *bufio.Reader
	out     io.Writer
	closer  io.Closer
}

// NewApp opens the session database and builds the API client for the
// configured backend.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	baseURL := api.ResolveBaseURL(c.BaseURL, c.SiteURL)
	if baseURL == "" {
		return nil, api.ErrNoBaseURL
	}

	if err := filex.EnsureParentDir(c.SessionDB); err != nil {
		return nil, err
	}
	store, err := session.Open(ctx, c.SessionDB)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	var backend api.Backend
	switch c.Backend {
	case config.BackendPlatform:
		backend = api.NewPlatform(baseURL, c.APIKey)
	default:
		backend = api.NewSelfHosted(baseURL, c.RefreshPath)
	}

	client := api.NewClient(backend, store, api.WithHTTPClient(&http.Client{Timeout: c.Timeout}))

	return &App{
		api:     client,
		session: store,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		closer:  store,
	}, nil
}

// Close releases the session database.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
