package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/soldbd/internal/common"
)

// API error codes returned alongside the human message.
const (
	ErrCodeInvalidRequest     = "invalid_request"
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeInvalidToken       = "invalid_token"
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodeForbidden          = "forbidden"
	ErrCodeNotFound           = "not_found"
	ErrCodeConflict           = "conflict"
	ErrCodeRateLimited        = "rate_limited"
	ErrCodeNotImplemented     = "not_implemented"
	ErrCodeUnavailable        = "unavailable"
	ErrCodeInternal           = "internal_error"
)

const maxJSONBody = 1 << 20

type errorBody struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeErr(w http.ResponseWriter, code int, errCode, message string) {
	writeJSON(w, code, errorBody{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// writeError maps the common error taxonomy onto HTTP. Anything unknown is
// logged and reported as a bare 500 so driver text never reaches clients.
func (s *HTTPServer) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var input *common.InputError
	switch {
	case errors.As(err, &input):
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, input.Reason)
	case errors.Is(err, common.ErrInvalidInput):
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid request")
	case errors.Is(err, common.ErrInvalidCredentials):
		writeErr(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, common.ErrInvalidRefreshToken):
		writeErr(w, http.StatusUnauthorized, ErrCodeInvalidToken, "Invalid refresh token")
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrUnauthorized):
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Unauthorized")
	case errors.Is(err, common.ErrForbidden):
		writeErr(w, http.StatusForbidden, ErrCodeForbidden, "Forbidden")
	case errors.Is(err, common.ErrorNotFound):
		writeErr(w, http.StatusNotFound, ErrCodeNotFound, "Not found")
	case errors.Is(err, common.ErrConflict):
		writeErr(w, http.StatusConflict, ErrCodeConflict, "Conflict")
	case errors.Is(err, common.ErrNotConfigured):
		writeErr(w, http.StatusNotImplemented, ErrCodeNotImplemented, "Upload not configured. Save s3 or r2 storage settings first.")
	case errors.Is(err, common.ErrUnavailable):
		writeErr(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "Service unavailable")
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "Internal error")
	}
}

// decodeJSON reads a bounded JSON body into dst and runs struct validation.
func (s *HTTPServer) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return common.NewInputError("", "Invalid JSON body")
	}
	if err := s.validate.Struct(dst); err != nil {
		return common.NewInputError("", validationMessage(err))
	}
	return nil
}
