package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Backend maps function names to URLs and knows the auth endpoints of one
// server flavour.
type Backend interface {
	// FunctionURL returns the absolute URL for an API function.
	FunctionURL(function string) string
	// Decorate adds backend specific headers to every request.
	Decorate(r *http.Request)
	// Refresh exchanges refreshToken for a new pair. A response without a new
	// refresh token keeps the old one.
	Refresh(ctx context.Context, hc *http.Client, refreshToken string) (Tokens, error)
	// SignIn exchanges credentials for a pair.
	SignIn(ctx context.Context, hc *http.Client, identifier, password string) (Tokens, error)
	// SignOut revokes the session server side.
	SignOut(ctx context.Context, hc *http.Client, t Tokens) error
}

func trimSlash(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), "/")
}

// postJSON sends body as JSON and decodes a 2xx response into out. Non-2xx
// responses become *Error.
func postJSON(ctx context.Context, hc *http.Client, url string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// responseError prefers the server's "error" field, then the status text.
func responseError(status int, body []byte) *Error {
	var payload struct {
		Error any    `json:"error"`
		Code  string `json:"code"`
	}
	e := &Error{Status: status}
	if json.Unmarshal(body, &payload) == nil {
		e.Code = payload.Code
		switch v := payload.Error.(type) {
		case string:
			e.Message = v
		case map[string]any:
			if msg, ok := v["message"].(string); ok {
				e.Message = msg
			}
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	if e.Message == "" {
		e.Message = "Request failed"
	}
	return e
}
