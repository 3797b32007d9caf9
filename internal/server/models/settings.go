package models

import (
	"encoding/json"
	"time"
)

// SiteSettings is the singleton storefront copy row.
type SiteSettings struct {
	ID                     int
	BrandName              string
	BrandTagline           string
	HeaderKicker           string
	HeroH1                 string
	HeroSubtitle           string
	WhatsAppPhoneE164      string
	WhatsAppDefaultMessage string
	NextDropAt             *time.Time
	Content                map[string]json.RawMessage
	UpdatedAt              time.Time
}

// StorageSettings is the singleton external object storage configuration.
// Settings is provider specific and kept as opaque JSON.
type StorageSettings struct {
	Provider  *string
	Settings  map[string]any
	UpdatedAt time.Time
}
