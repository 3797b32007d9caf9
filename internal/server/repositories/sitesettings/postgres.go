package sitesettings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/soldbd/internal/common"
	"github.com/dmitrijs2005/soldbd/internal/dbx"
	"github.com/dmitrijs2005/soldbd/internal/server/models"
)

const singletonID = 1

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context) (*models.SiteSettings, error) {
	query := `SELECT id, brand_name, brand_tagline, header_kicker, hero_h1, hero_subtitle,
		whatsapp_phone_e164, whatsapp_default_message, next_drop_at, content_json, updated_at
		FROM site_settings WHERE id = $1`

	s := &models.SiteSettings{}
	var nextDrop sql.NullTime
	var content []byte

	err := r.db.QueryRowContext(ctx, query, singletonID).Scan(&s.ID, &s.BrandName, &s.BrandTagline,
		&s.HeaderKicker, &s.HeroH1, &s.HeroSubtitle, &s.WhatsAppPhoneE164, &s.WhatsAppDefaultMessage,
		&nextDrop, &content, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if nextDrop.Valid {
		t := nextDrop.Time
		s.NextDropAt = &t
	}
	s.Content, err = decodeContent(content)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *PostgresRepository) UpdateFields(ctx context.Context, s *models.SiteSettings) error {
	query := `UPDATE site_settings
		SET brand_name = $1, brand_tagline = $2, header_kicker = $3, hero_h1 = $4, hero_subtitle = $5,
		    whatsapp_phone_e164 = $6, whatsapp_default_message = $7, next_drop_at = $8, updated_at = now()
		WHERE id = $9`

	var nextDrop sql.NullTime
	if s.NextDropAt != nil {
		nextDrop = sql.NullTime{Time: *s.NextDropAt, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, query, s.BrandName, s.BrandTagline, s.HeaderKicker, s.HeroH1,
		s.HeroSubtitle, s.WhatsAppPhoneE164, s.WhatsAppDefaultMessage, nextDrop, singletonID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	ok, err := dbx.AffectedOne(res)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if !ok {
		return common.ErrorNotFound
	}
	return nil
}

// MergeContent must run inside a transaction: the row is locked with
// FOR UPDATE so concurrent patches never drop each other's keys.
func (r *PostgresRepository) MergeContent(ctx context.Context, patch map[string]json.RawMessage) (map[string]json.RawMessage, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, `SELECT content_json FROM site_settings WHERE id = $1 FOR UPDATE`, singletonID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	content, err := decodeContent(raw)
	if err != nil {
		return nil, err
	}
	for k, v := range patch {
		content[k] = v
	}

	merged, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("encode content: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE site_settings SET content_json = $1::jsonb, updated_at = now() WHERE id = $2`,
		string(merged), singletonID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return content, nil
}

// decodeContent treats an empty or non-object column as {}.
func decodeContent(raw []byte) (map[string]json.RawMessage, error) {
	out := map[string]json.RawMessage{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]json.RawMessage{}, nil
	}
	if out == nil {
		out = map[string]json.RawMessage{}
	}
	return out, nil
}
