// Package refreshtokens provides refresh-token persistence over PostgreSQL.
package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dbelyaev/recapd/internal/common"
	"github.com/dbelyaev/recapd/internal/dbx"
	"github.com/dbelyaev/recapd/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create stores a refresh token that expires after validity.
func (r *PostgresRepository) Create(ctx context.Context, userID, token string, validity time.Duration) error {
	query := `INSERT INTO refresh_tokens (token, user_id, expires) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, token, userID, time.Now().Add(validity))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Find returns the stored token or common.ErrorNotFound.
func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := `SELECT token, user_id, expires FROM refresh_tokens WHERE token=$1`

	result := &models.RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(&result.Token, &result.UserID, &result.Expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select refresh token: %w", err)
	}
	return result, nil
}

// Delete removes the token; deleting an absent token is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM refresh_tokens WHERE token=$1`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
