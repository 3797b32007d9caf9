package api

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

// DefaultRefreshPath is where a self-hosted server rotates refresh tokens.
const DefaultRefreshPath = "/api/auth/refresh"

var absoluteURL = regexp.MustCompile(`(?i)^https?://`)

// SelfHosted talks to the sold.bd Go server.
type SelfHosted struct {
	baseURL    string
	refreshURL string
}

// NewSelfHosted builds the backend for baseURL. refreshPath may be absolute
// or relative to baseURL; empty selects DefaultRefreshPath.
func NewSelfHosted(baseURL, refreshPath string) *SelfHosted {
	base := trimSlash(baseURL)
	return &SelfHosted{baseURL: base, refreshURL: resolveRefreshURL(base, refreshPath)}
}

func resolveRefreshURL(base, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultRefreshPath
	}
	if absoluteURL.MatchString(path) {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

func (b *SelfHosted) FunctionURL(function string) string {
	return b.baseURL + "/api/" + strings.TrimLeft(function, "/")
}

func (b *SelfHosted) Decorate(*http.Request) {}

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (b *SelfHosted) Refresh(ctx context.Context, hc *http.Client, refreshToken string) (Tokens, error) {
	var out tokenPair
	if err := postJSON(ctx, hc, b.refreshURL, nil, map[string]string{"refreshToken": refreshToken}, &out); err != nil {
		return Tokens{}, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	if out.AccessToken == "" {
		return Tokens{}, fmt.Errorf("%w: no access token in response", ErrRefreshFailed)
	}
	if out.RefreshToken == "" {
		out.RefreshToken = refreshToken
	}
	return Tokens{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken}, nil
}

func (b *SelfHosted) SignIn(ctx context.Context, hc *http.Client, identifier, password string) (Tokens, error) {
	var out tokenPair
	body := map[string]string{"identifier": identifier, "password": password}
	if err := postJSON(ctx, hc, b.FunctionURL("auth/login"), nil, body, &out); err != nil {
		return Tokens{}, err
	}
	return Tokens{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken}, nil
}

func (b *SelfHosted) SignOut(ctx context.Context, hc *http.Client, t Tokens) error {
	if t.RefreshToken == "" {
		return nil
	}
	return postJSON(ctx, hc, b.FunctionURL("auth/logout"), nil, map[string]string{"refreshToken": t.RefreshToken}, nil)
}
