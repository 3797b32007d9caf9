// Package deals stores the flash-deal catalogue.
package deals

import (
	"context"
	"time"

	"github.com/dmitrijs2005/soldbd/internal/server/models"
)

type Repository interface {
	// ListActive returns active deals ending after now, soonest first.
	ListActive(ctx context.Context, now time.Time, limit int) ([]*models.Deal, error)
	// ListAll returns every deal, latest ending first.
	ListAll(ctx context.Context, limit int) ([]*models.Deal, error)
	// Create fails with common.ErrConflict on a duplicate id.
	Create(ctx context.Context, d *models.Deal) error
	// Update, SetActive and Delete return common.ErrorNotFound for unknown ids.
	Update(ctx context.Context, d *models.Deal) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}
