package deals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/soldbd/internal/common"
	"github.com/dmitrijs2005/soldbd/internal/dbx"
	"github.com/dmitrijs2005/soldbd/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const columns = `id, title, description, category, price_bdt, image_url, stock, ends_at, is_active, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListActive(ctx context.Context, now time.Time, limit int) ([]*models.Deal, error) {
	query := `SELECT ` + columns + ` FROM deals
		WHERE is_active AND ends_at > $1
		ORDER BY ends_at ASC
		LIMIT $2`
	return r.list(ctx, query, now, limit)
}

func (r *PostgresRepository) ListAll(ctx context.Context, limit int) ([]*models.Deal, error) {
	query := `SELECT ` + columns + ` FROM deals
		ORDER BY ends_at DESC
		LIMIT $1`
	return r.list(ctx, query, limit)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Deal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Deal, 0)
	for rows.Next() {
		d := &models.Deal{}
		var price sql.NullInt64
		if err := rows.Scan(&d.ID, &d.Title, &d.Description, &d.Category, &price, &d.ImageURL,
			&d.Stock, &d.EndsAt, &d.IsActive, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if price.Valid {
			p := price.Int64
			d.PriceBDT = &p
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Create(ctx context.Context, d *models.Deal) error {
	query := `INSERT INTO deals (id, title, description, category, price_bdt, image_url, stock, ends_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query, d.ID, d.Title, d.Description, d.Category,
		nullablePrice(d.PriceBDT), d.ImageURL, d.Stock, d.EndsAt, d.IsActive)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.ErrConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, d *models.Deal) error {
	query := `UPDATE deals
		SET title = $1, description = $2, category = $3, price_bdt = $4, image_url = $5,
		    stock = $6, ends_at = $7, updated_at = now()
		WHERE id = $8`

	res, err := r.db.ExecContext(ctx, query, d.Title, d.Description, d.Category,
		nullablePrice(d.PriceBDT), d.ImageURL, d.Stock, d.EndsAt, d.ID)
	return oneRow(res, err)
}

func (r *PostgresRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE deals SET is_active = $1, updated_at = now() WHERE id = $2`, active, id)
	return oneRow(res, err)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM deals WHERE id = $1`, id)
	return oneRow(res, err)
}

func oneRow(res sql.Result, err error) error {
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

func nullablePrice(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}
