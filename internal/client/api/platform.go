package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Platform talks to the hosted functions platform the storefront started on.
// Every request carries the project's public API key.
type Platform struct {
	baseURL string
	apiKey  string
}

func NewPlatform(baseURL, apiKey string) *Platform {
	return &Platform{baseURL: trimSlash(baseURL), apiKey: apiKey}
}

func (b *Platform) FunctionURL(function string) string {
	return b.baseURL + "/functions/v1/" + strings.TrimLeft(function, "/")
}

func (b *Platform) Decorate(r *http.Request) {
	if b.apiKey != "" {
		r.Header.Set("apikey", b.apiKey)
	}
}

func (b *Platform) headers() map[string]string {
	if b.apiKey == "" {
		return nil
	}
	return map[string]string{"apikey": b.apiKey}
}

type platformSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (b *Platform) Refresh(ctx context.Context, hc *http.Client, refreshToken string) (Tokens, error) {
	var out platformSession
	url := b.baseURL + "/auth/v1/token?grant_type=refresh_token"
	if err := postJSON(ctx, hc, url, b.headers(), map[string]string{"refresh_token": refreshToken}, &out); err != nil {
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

func (b *Platform) SignIn(ctx context.Context, hc *http.Client, identifier, password string) (Tokens, error) {
	var out platformSession
	url := b.baseURL + "/auth/v1/token?grant_type=password"
	if err := postJSON(ctx, hc, url, b.headers(), map[string]string{"email": identifier, "password": password}, &out); err != nil {
		return Tokens{}, err
	}
	return Tokens{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken}, nil
}

func (b *Platform) SignOut(ctx context.Context, hc *http.Client, t Tokens) error {
	if t.AccessToken == "" {
		return nil
	}
	h := b.headers()
	if h == nil {
		h = map[string]string{}
	}
	h["Authorization"] = "Bearer " + t.AccessToken
	return postJSON(ctx, hc, b.baseURL+"/auth/v1/logout", h, struct{}{}, nil)
}
