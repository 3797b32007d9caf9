package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/soldbd/internal/common"
	"github.com/dmitrijs2005/soldbd/internal/dbx"
	"github.com/dmitrijs2005/soldbd/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.AdminAccount) (*models.AdminAccount, error) {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.Role == "" {
		account.Role = models.RoleAdmin
	}

	query :=
		`INSERT INTO admin_users (id, email, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Email, account.PasswordHash, string(account.Role)).Scan(&account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.AdminAccount, error) {
	query :=
		`SELECT id, email, password_hash, role, created_at FROM admin_users
		 WHERE lower(email) = lower($1)
		 LIMIT 1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, identifier))
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.AdminAccount, error) {
	query :=
		`SELECT id, email, password_hash, role, created_at FROM admin_users
		 WHERE id = $1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.AdminAccount, error) {
	a := &models.AdminAccount{}
	var role string
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &role, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	a.Role = models.Role(role)
	return a, nil
}

func (r *PostgresRepository) ExistsAny(ctx context.Context) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM admin_users)`).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) ClaimBootstrap(ctx context.Context) (bool, error) {
	query :=
		`INSERT INTO admin_bootstrap (id) VALUES (1)
		 ON CONFLICT (id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	claimed, err := dbx.AffectedOne(res)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return claimed, nil
}
