package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/soldbd/internal/common"
	"github.com/dmitrijs2005/soldbd/internal/logging"
)

const (
	callRetries   = 2
	replayRetries = 1
)

// CallOptions describes one API call. Method defaults to POST. Body, when
// set, is sent as JSON.
type CallOptions struct {
	Method  string
	Body    any
	Headers map[string]string
}

type Client struct {
	backend Backend
	session Session
	http    *http.Client
	logger  logging.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func NewClient(b Backend, s Session, opts ...Option) *Client {
	c := &Client{
		backend: b,
		session: s,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logging.NewDiscardLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	c.logger = c.logger.With("module", "api_client")
	return c
}

type response struct {
	status int
	body   []byte
}

// Call invokes function and decodes a 2xx JSON body into out (which may be
// nil).
func (c *Client) Call(ctx context.Context, function string, opts CallOptions, out any) error {
	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodPost
	}

	var payload []byte
	if opts.Body != nil {
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = b
	}

	tokens, err := c.session.Tokens(ctx)
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}

	url := c.backend.FunctionURL(function)

	resp, err := c.doWithRetry(ctx, method, url, payload, opts.Headers, tokens.AccessToken, callRetries)
	if err != nil {
		return err
	}

	if resp.status == http.StatusUnauthorized {
		if fresh, ok := c.refresh(ctx, tokens.RefreshToken); ok {
			resp, err = c.doWithRetry(ctx, method, url, payload, opts.Headers, fresh.AccessToken, replayRetries)
			if err != nil {
				return err
			}
		}
	}

	if resp.status < 200 || resp.status > 299 {
		return responseError(resp.status, resp.body)
	}
	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", function, err)
	}
	return nil
}

// refresh rotates the held refresh token once. Any failure, including
// having no refresh token, reports false.
func (c *Client) refresh(ctx context.Context, refreshToken string) (Tokens, bool) {
	if refreshToken == "" {
		return Tokens{}, false
	}
	fresh, err := c.backend.Refresh(ctx, c.http, refreshToken)
	if err != nil {
		c.logger.Debug(ctx, "token refresh failed", "error", err)
		return Tokens{}, false
	}
	if err := c.session.Save(ctx, fresh); err != nil {
		c.logger.Warn(ctx, "could not persist refreshed tokens", "error", err)
	}
	return fresh, true
}

// doWithRetry repeats the request on network errors and 5xx responses, up to
// retries extra attempts. The last 5xx response is returned as is.
func (c *Client) doWithRetry(ctx context.Context, method, url string, payload []byte, headers map[string]string, accessToken string, retries int) (*response, error) {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		resp, err := c.do(ctx, method, url, payload, headers, accessToken)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			lastErr = err
			continue
		}
		if resp.status >= 500 && attempt < retries {
			continue
		}
		return resp, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte, headers map[string]string, accessToken string) (*response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if payload != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerScheme+" "+accessToken)
	}
	c.backend.Decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &response{status: resp.StatusCode, body: data}, nil
}

// Login signs in and stores the new pair in the session.
func (c *Client) Login(ctx context.Context, identifier, password string) error {
	t, err := c.backend.SignIn(ctx, c.http, identifier, password)
	if err != nil {
		return err
	}
	if t.AccessToken == "" {
		return &Error{Status: http.StatusUnauthorized, Message: "No access token returned"}
	}
	return c.session.Save(ctx, t)
}

// Logout revokes the session server side (best effort) and always clears
// the local session.
func (c *Client) Logout(ctx context.Context) error {
	t, err := c.session.Tokens(ctx)
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}
	if err := c.backend.SignOut(ctx, c.http, t); err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Warn(ctx, "server side sign out failed", "error", err)
	}
	return c.session.Clear(ctx)
}

// Session returns the session the client reads and updates.
func (c *Client) Session() Session { return c.session }
