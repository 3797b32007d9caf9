package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/soldbd/internal/common"
	"github.com/dmitrijs2005/soldbd/internal/logging"
	"github.com/dmitrijs2005/soldbd/internal/server/models"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/soldbd/internal/server/storage"
)

// StorageService manages the external storage settings and uploads admin
// assets to the configured bucket.
type StorageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	uploader    storage.Uploader
	logger      logging.Logger
}

func NewStorageService(db *sql.DB, m repomanager.RepositoryManager, u storage.Uploader, logger logging.Logger) *StorageService {
	return &StorageService{db: db, repomanager: m, uploader: u, logger: logger.With("module", "storage")}
}

func (s *StorageService) Get(ctx context.Context) (*models.StorageSettings, error) {
	return s.repomanager.StorageSettings(s.db).Get(ctx)
}

func (s *StorageService) Put(ctx context.Context, provider string, settings map[string]any) error {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return common.NewInputError("provider", "Missing provider")
	}
	return s.repomanager.StorageSettings(s.db).Put(ctx, provider, settings)
}

// UploadResult is the stored object's location.
type UploadResult struct {
	URL string
	Key string
}

// Upload returns common.ErrNotConfigured unless an s3 or r2 provider with a
// bucket and credentials has been saved.
func (s *StorageService) Upload(ctx context.Context, purpose, contentType string, body io.Reader) (*UploadResult, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	var provider string
	if settings.Provider != nil {
		provider = *settings.Provider
	}
	target, err := storage.TargetFromSettings(provider, settings.Settings)
	if err != nil {
		return nil, err
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := storage.ObjectKey(purpose, contentType)

	url, err := s.uploader.Upload(ctx, target, key, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}
	s.logger.Info(ctx, "asset uploaded", "provider", provider, "key", key)
	return &UploadResult{URL: url, Key: key}, nil
}
