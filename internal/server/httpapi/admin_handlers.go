package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/soldbd/internal/common"
	"github.com/dmitrijs2005/soldbd/internal/server/models"
)

const maxUploadBytes = 10 << 20

type dealRequest struct {
	ID          string `json:"id" validate:"max=64"`
	Title       string `json:"title" validate:"required,max=140"`
	Description string `json:"description" validate:"max=600"`
	Category    string `json:"category" validate:"max=60"`
	PriceBDT    *int64 `json:"price_bdt" validate:"omitempty,gte=0"`
	ImageURL    string `json:"image_url" validate:"max=600"`
	Stock       int64  `json:"stock" validate:"gte=0"`
	EndsAt      string `json:"ends_at" validate:"required"`
	IsActive    *bool  `json:"is_active"`
}

func (d *dealRequest) toModel() (*models.Deal, error) {
	ends, err := time.Parse(time.RFC3339, strings.TrimSpace(d.EndsAt))
	if err != nil {
		return nil, common.NewInputError("ends_at", "Invalid ends_at")
	}
	active := true
	if d.IsActive != nil {
		active = *d.IsActive
	}
	return &models.Deal{
		ID:          strings.TrimSpace(d.ID),
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		Category:    d.Category,
		PriceBDT:    d.PriceBDT,
		ImageURL:    strings.TrimSpace(d.ImageURL),
		Stock:       d.Stock,
		EndsAt:      ends,
		IsActive:    active,
	}, nil
}

type dealIDRequest struct {
	ID string `json:"id" validate:"required"`
}

type dealToggleRequest struct {
	ID       string `json:"id" validate:"required"`
	IsActive *bool  `json:"is_active" validate:"required"`
}

type siteSettingsRequest struct {
	BrandName              string  `json:"brand_name" validate:"required,max=60"`
	BrandTagline           string  `json:"brand_tagline" validate:"max=120"`
	HeaderKicker           string  `json:"header_kicker" validate:"max=80"`
	HeroH1                 string  `json:"hero_h1" validate:"max=200"`
	HeroSubtitle           string  `json:"hero_subtitle" validate:"max=240"`
	WhatsAppPhoneE164      string  `json:"whatsapp_phone_e164" validate:"max=32"`
	WhatsAppDefaultMessage string  `json:"whatsapp_default_message" validate:"max=500"`
	NextDropAt             *string `json:"next_drop_at"`
}

type contentPatchRequest struct {
	ContentPatch map[string]json.RawMessage `json:"content_patch" validate:"required"`
}

type storageSettingsRequest struct {
	Provider string         `json:"provider" validate:"required,max=32"`
	Settings map[string]any `json:"settings"`
}

type signupResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

func (s *HTTPServer) dbStatus(w http.ResponseWriter, r *http.Request) {
	checks := s.svc.Status.Checks(r.Context())
	ok := true
	for _, c := range checks {
		ok = ok && c.OK
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": ok, "checks": checks})
}

func (s *HTTPServer) adminListDeals(w http.ResponseWriter, r *http.Request) {
	deals, err := s.svc.Deals.ListAll(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	out := make([]dealResponse, 0, len(deals))
	for _, d := range deals {
		out = append(out, toDealResponse(d, true))
	}
	writeJSON(w, http.StatusOK, map[string]any{"deals": out})
}

func (s *HTTPServer) adminCreateDeal(w http.ResponseWriter, r *http.Request) {
	var req dealRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	d, err := req.toModel()
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	created, err := s.svc.Deals.Create(r.Context(), d)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": created.ID})
}

func (s *HTTPServer) adminUpdateDeal(w http.ResponseWriter, r *http.Request) {
	var req dealRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Missing id")
		return
	}
	d, err := req.toModel()
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if err := s.svc.Deals.Update(r.Context(), d); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w)
}

func (s *HTTPServer) adminToggleDeal(w http.ResponseWriter, r *http.Request) {
	var req dealToggleRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if err := s.svc.Deals.SetActive(r.Context(), req.ID, *req.IsActive); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w)
}

func (s *HTTPServer) adminDeleteDeal(w http.ResponseWriter, r *http.Request) {
	var req dealIDRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if err := s.svc.Deals.Delete(r.Context(), req.ID); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w)
}

func (s *HTTPServer) adminUpdateSiteSettings(w http.ResponseWriter, r *http.Request) {
	var req siteSettingsRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	st := &models.SiteSettings{
		BrandName:              strings.TrimSpace(req.BrandName),
		BrandTagline:           req.BrandTagline,
		HeaderKicker:           req.HeaderKicker,
		HeroH1:                 req.HeroH1,
		HeroSubtitle:           req.HeroSubtitle,
		WhatsAppPhoneE164:      strings.TrimSpace(req.WhatsAppPhoneE164),
		WhatsAppDefaultMessage: req.WhatsAppDefaultMessage,
	}
	if req.NextDropAt != nil && strings.TrimSpace(*req.NextDropAt) != "" {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(*req.NextDropAt))
		if err != nil {
			writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid next_drop_at")
			return
		}
		st.NextDropAt = &t
	}

	if err := s.svc.SiteSettings.Update(r.Context(), st); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w)
}

func (s *HTTPServer) adminPatchSiteContent(w http.ResponseWriter, r *http.Request) {
	var req contentPatchRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	content, err := s.svc.SiteSettings.MergeContent(r.Context(), req.ContentPatch)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "content": content})
}

func (s *HTTPServer) adminListSignups(w http.ResponseWriter, r *http.Request) {
	signups, err := s.svc.Signups.List(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	out := make([]signupResponse, 0, len(signups))
	for _, su := range signups {
		out = append(out, signupResponse{
			ID:        strconv.FormatInt(su.ID, 10),
			Email:     su.Email,
			CreatedAt: isoTime(su.CreatedAt),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"signups": out})
}

func (s *HTTPServer) adminGetStorageSettings(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Storage.Get(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"provider": st.Provider, "settings": st.Settings})
}

func (s *HTTPServer) adminPutStorageSettings(w http.ResponseWriter, r *http.Request) {
	var req storageSettingsRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if err := s.svc.Storage.Put(r.Context(), req.Provider, req.Settings); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.logger.Info(r.Context(), "storage settings changed", "provider", req.Provider, "by", actor(r))
	writeOK(w)
}

func (s *HTTPServer) adminUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErr(w, http.StatusRequestEntityTooLarge, ErrCodeInvalidRequest, "Max 10MB")
			return
		}
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Expected multipart/form-data")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Missing file")
		return
	}
	defer file.Close()

	switch {
	case header.Size <= 0:
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Empty file")
		return
	case header.Size > maxUploadBytes:
		writeErr(w, http.StatusRequestEntityTooLarge, ErrCodeInvalidRequest, "Max 10MB")
		return
	}

	res, err := s.svc.Storage.Upload(r.Context(), r.FormValue("purpose"), header.Header.Get("Content-Type"), file)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.logger.Info(r.Context(), "file uploaded", "key", res.Key, "size", header.Size, "by", actor(r))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "url": res.URL, "key": res.Key})
}

// actor names the admin behind a gated request for audit lines.
func actor(r *http.Request) string {
	if c, ok := ClaimsFromContext(r.Context()); ok {
		return c.Subject
	}
	return ""
}
