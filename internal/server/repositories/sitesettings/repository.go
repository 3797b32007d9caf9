// Package sitesettings stores the singleton storefront copy row.
package sitesettings

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/soldbd/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound when the seed row is missing.
	Get(ctx context.Context) (*models.SiteSettings, error)
	// UpdateFields replaces the scalar columns and leaves content untouched.
	UpdateFields(ctx context.Context, s *models.SiteSettings) error
	// MergeContent shallow-merges patch into the stored content object and
	// returns the merged result.
	MergeContent(ctx context.Context, patch map[string]json.RawMessage) (map[string]json.RawMessage, error)
}
