package storagesettings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

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

// Get returns empty settings rather than an error when the row is missing.
func (r *PostgresRepository) Get(ctx context.Context) (*models.StorageSettings, error) {
	var provider sql.NullString
	var raw []byte
	s := &models.StorageSettings{}

	err := r.db.QueryRowContext(ctx, `SELECT provider, settings_json, updated_at FROM external_storage_settings WHERE id = $1`, singletonID).
		Scan(&provider, &raw, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.StorageSettings{}, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if provider.Valid {
		p := provider.String
		s.Provider = &p
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.Settings); err != nil {
			s.Settings = nil
		}
	}
	return s, nil
}

func (r *PostgresRepository) Put(ctx context.Context, provider string, settings map[string]any) error {
	var raw any
	if settings != nil {
		b, err := json.Marshal(settings)
		if err != nil {
			return fmt.Errorf("encode settings: %w", err)
		}
		raw = string(b)
	}

	query := `INSERT INTO external_storage_settings (id, provider, settings_json, updated_at)
		VALUES ($1, $2, $3::jsonb, now())
		ON CONFLICT (id) DO UPDATE
		SET provider = EXCLUDED.provider, settings_json = EXCLUDED.settings_json, updated_at = now()`

	if _, err := r.db.ExecContext(ctx, query, singletonID, provider, raw); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
