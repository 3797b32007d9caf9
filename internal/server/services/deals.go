package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dmitrijs2005/soldbd/internal/common"
	"github.com/dmitrijs2005/soldbd/internal/server/models"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/repomanager"
	"github.com/oklog/ulid/v2"
)

const (
	publicDealsLimit = 200
	adminDealsLimit  = 500
)

type DealService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewDealService(db *sql.DB, m repomanager.RepositoryManager) *DealService {
	return &DealService{db: db, repomanager: m, now: time.Now}
}

// ListActive returns the storefront view: active deals that have not ended.
func (s *DealService) ListActive(ctx context.Context) ([]*models.Deal, error) {
	return s.repomanager.Deals(s.db).ListActive(ctx, s.now(), publicDealsLimit)
}

func (s *DealService) ListAll(ctx context.Context) ([]*models.Deal, error) {
	return s.repomanager.Deals(s.db).ListAll(ctx, adminDealsLimit)
}

// Create assigns a "d_<ulid>" id when none is given.
func (s *DealService) Create(ctx context.Context, d *models.Deal) (*models.Deal, error) {
	if err := validateDeal(d); err != nil {
		return nil, err
	}
	if strings.TrimSpace(d.ID) == "" {
		d.ID = "d_" + strings.ToLower(ulid.Make().String())
	}
	if err := s.repomanager.Deals(s.db).Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DealService) Update(ctx context.Context, d *models.Deal) error {
	if strings.TrimSpace(d.ID) == "" {
		return common.NewInputError("id", "Missing id")
	}
	if err := validateDeal(d); err != nil {
		return err
	}
	return s.repomanager.Deals(s.db).Update(ctx, d)
}

func (s *DealService) SetActive(ctx context.Context, id string, active bool) error {
	if strings.TrimSpace(id) == "" {
		return common.NewInputError("id", "Missing id")
	}
	return s.repomanager.Deals(s.db).SetActive(ctx, id, active)
}

func (s *DealService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return common.NewInputError("id", "Missing id")
	}
	return s.repomanager.Deals(s.db).Delete(ctx, id)
}

func validateDeal(d *models.Deal) error {
	switch {
	case strings.TrimSpace(d.Title) == "":
		return common.NewInputError("title", "Title is required")
	case d.EndsAt.IsZero():
		return common.NewInputError("ends_at", "Invalid ends_at")
	case d.Stock < 0:
		return common.NewInputError("stock", "Stock must not be negative")
	case d.PriceBDT != nil && *d.PriceBDT < 0:
		return common.NewInputError("price_bdt", "Price must not be negative")
	}
	return nil
}
