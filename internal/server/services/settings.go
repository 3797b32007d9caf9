package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/dmitrijs2005/soldbd/internal/common"
	"github.com/dmitrijs2005/soldbd/internal/dbx"
	"github.com/dmitrijs2005/soldbd/internal/server/models"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/repomanager"
)

type SiteSettingsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSiteSettingsService(db *sql.DB, m repomanager.RepositoryManager) *SiteSettingsService {
	return &SiteSettingsService{db: db, repomanager: m}
}

// Get returns nil settings without error when the row is missing.
func (s *SiteSettingsService) Get(ctx context.Context) (*models.SiteSettings, error) {
	settings, err := s.repomanager.SiteSettings(s.db).Get(ctx)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	return settings, err
}

func (s *SiteSettingsService) Update(ctx context.Context, in *models.SiteSettings) error {
	if strings.TrimSpace(in.BrandName) == "" {
		return common.NewInputError("brand_name", "Brand name is required")
	}
	return s.repomanager.SiteSettings(s.db).UpdateFields(ctx, in)
}

// MergeContent applies a shallow patch to the content object under a row
// lock and returns the merged object.
func (s *SiteSettingsService) MergeContent(ctx context.Context, patch map[string]json.RawMessage) (map[string]json.RawMessage, error) {
	if len(patch) == 0 {
		return nil, common.NewInputError("content_patch", "Missing content_patch")
	}
	return dbx.InTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (map[string]json.RawMessage, error) {
		return s.repomanager.SiteSettings(tx).MergeContent(ctx, patch)
	})
}
