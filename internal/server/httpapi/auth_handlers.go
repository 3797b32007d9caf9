package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/soldbd/internal/common"
)

type credentialsRequest struct {
	Identifier string `json:"identifier" validate:"required_without=Email,max=254"`
	Email      string `json:"email" validate:"max=254"`
	Password   string `json:"password" validate:"required"`
}

// identifier accepts "email" as an alias of "identifier".
func (c *credentialsRequest) identifier() string {
	if c.Identifier != "" {
		return c.Identifier
	}
	return c.Email
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type bootstrapRequest struct {
	Token      string `json:"token"`
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Missing email/password")
		return
	}

	pair, err := s.svc.Sessions.Login(r.Context(), req.identifier(), req.Password)
	recordAuthAttempt("login", err == nil)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *HTTPServer) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Missing refreshToken")
		return
	}

	pair, err := s.svc.Sessions.Refresh(r.Context(), req.RefreshToken)
	recordAuthAttempt("refresh", err == nil)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *HTTPServer) logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Missing refreshToken")
		return
	}
	if err := s.svc.Sessions.Logout(r.Context(), req.RefreshToken); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w)
}

// bootstrapAdmin differs from the generic mapping: a wrong secret is 403 and
// an existing admin is 409 with a specific message.
func (s *HTTPServer) bootstrapAdmin(w http.ResponseWriter, r *http.Request) {
	var req bootstrapRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Email
	}

	err := s.svc.Bootstrap.Bootstrap(r.Context(), req.Token, identifier, req.Password)
	recordAuthAttempt("bootstrap", err == nil)
	switch {
	case err == nil:
		writeOK(w)
	case errors.Is(err, common.ErrInvalidToken):
		writeErr(w, http.StatusForbidden, ErrCodeForbidden, "Invalid token")
	case errors.Is(err, common.ErrConflict):
		writeErr(w, http.StatusConflict, ErrCodeConflict, "Admin already exists")
	default:
		s.writeError(r.Context(), w, err)
	}
}
