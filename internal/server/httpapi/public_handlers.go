package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/soldbd/internal/common"
	"github.com/dmitrijs2005/soldbd/internal/server/models"
)

const backendName = "selfhosted"

type dealResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	PriceBDT    *int64 `json:"priceBdt,omitempty"`
	ImageURL    string `json:"imageUrl"`
	Stock       int64  `json:"stock"`
	EndsAt      string `json:"endsAt"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

func toDealResponse(d *models.Deal, withActive bool) dealResponse {
	out := dealResponse{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		PriceBDT:    d.PriceBDT,
		ImageURL:    d.ImageURL,
		Stock:       d.Stock,
		EndsAt:      isoTime(d.EndsAt),
	}
	if withActive {
		active := d.IsActive
		out.IsActive = &active
	}
	return out
}

type siteSettingsResponse struct {
	ID                     string                     `json:"id"`
	BrandName              string                     `json:"brand_name"`
	BrandTagline           string                     `json:"brand_tagline"`
	HeaderKicker           string                     `json:"header_kicker"`
	HeroH1                 string                     `json:"hero_h1"`
	HeroSubtitle           string                     `json:"hero_subtitle"`
	WhatsAppPhoneE164      string                     `json:"whatsapp_phone_e164"`
	WhatsAppDefaultMessage string                     `json:"whatsapp_default_message"`
	NextDropAt             *string                    `json:"next_drop_at"`
	Content                map[string]json.RawMessage `json:"content"`
}

func isoTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	db := "down"
	if s.svc.Status.Ping(r.Context()) {
		db = "up"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"backend": backendName,
		"ts":      isoTime(s.now()),
		"db":      db,
	})
}

func (s *HTTPServer) listDeals(w http.ResponseWriter, r *http.Request) {
	deals, err := s.svc.Deals.ListActive(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	out := make([]dealResponse, 0, len(deals))
	for _, d := range deals {
		out = append(out, toDealResponse(d, false))
	}
	writeJSON(w, http.StatusOK, map[string]any{"deals": out})
}

func (s *HTTPServer) getSiteSettings(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.SiteSettings.Get(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if st == nil {
		writeJSON(w, http.StatusOK, map[string]any{"settings": nil})
		return
	}

	out := siteSettingsResponse{
		ID:                     strconv.Itoa(st.ID),
		BrandName:              st.BrandName,
		BrandTagline:           st.BrandTagline,
		HeaderKicker:           st.HeaderKicker,
		HeroH1:                 st.HeroH1,
		HeroSubtitle:           st.HeroSubtitle,
		WhatsAppPhoneE164:      st.WhatsAppPhoneE164,
		WhatsAppDefaultMessage: st.WhatsAppDefaultMessage,
		Content:                st.Content,
	}
	if out.Content == nil {
		out.Content = map[string]json.RawMessage{}
	}
	if st.NextDropAt != nil {
		v := isoTime(*st.NextDropAt)
		out.NextDropAt = &v
	}
	writeJSON(w, http.StatusOK, map[string]any{"settings": out})
}

type earlyAccessRequest struct {
	Email string `json:"email"`
}

// earlyAccess answers 200 with ok:false for a bad address so storefront
// forms can show the message inline.
func (s *HTTPServer) earlyAccess(w http.ResponseWriter, r *http.Request) {
	var req earlyAccessRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	err := s.svc.Signups.Add(r.Context(), req.Email)
	if errors.Is(err, common.ErrInvalidInput) {
		writeJSON(w, http.StatusOK, errorBody{Error: "Invalid email", Code: ErrCodeInvalidRequest})
		return
	}
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeOK(w)
}
