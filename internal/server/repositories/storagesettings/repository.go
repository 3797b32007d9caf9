// Package storagesettings stores the external object storage configuration.
package storagesettings

import (
	"context"

	"github.com/dmitrijs2005/soldbd/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context) (*models.StorageSettings, error)
	Put(ctx context.Context, provider string, settings map[string]any) error
}
