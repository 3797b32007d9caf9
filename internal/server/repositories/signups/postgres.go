package signups

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/soldbd/internal/dbx"
	"github.com/dmitrijs2005/soldbd/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, email string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO early_access_signups (email) VALUES ($1) ON CONFLICT (email) DO NOTHING`, email)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return dbx.AffectedOne(res)
}

func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]*models.EarlyAccessSignup, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, email, created_at FROM early_access_signups ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]*models.EarlyAccessSignup, 0)
	for rows.Next() {
		s := &models.EarlyAccessSignup{}
		if err := rows.Scan(&s.ID, &s.Email, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
