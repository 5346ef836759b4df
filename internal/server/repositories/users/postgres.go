// Package users provides account persistence over PostgreSQL.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dbelyaev/recapd/internal/common"
	"github.com/dbelyaev/recapd/internal/dbx"
	"github.com/dbelyaev/recapd/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a user and returns it with the generated id. A duplicate
// email yields common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id`

	var id string
	err := r.db.QueryRowContext(ctx, query, user.Email, user.PasswordHash).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.ID = id
	return user, nil
}

// GetByEmail returns the user with the given email or common.ErrorNotFound.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, email, password_hash FROM users WHERE email=$1`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(&user.ID, &user.Email, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select user: %w", err)
	}
	return user, nil
}
