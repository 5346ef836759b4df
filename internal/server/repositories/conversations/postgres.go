// Package conversations provides conversation persistence over PostgreSQL.
package conversations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

const selectColumns = `id, owner_id, original_filename, mime_type, size_bytes,
		storage_key, status, transcript_text, summary_text, error_message, created_at, updated_at`

func scanConversation(row interface{ Scan(...any) error }) (*models.Conversation, error) {
	c := &models.Conversation{}
	err := row.Scan(&c.ID, &c.OwnerID, &c.OriginalFilename, &c.MimeType, &c.SizeBytes,
		&c.StorageKey, &c.Status, &c.Transcript, &c.Summary, &c.ErrorMessage, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new conversation row in its initial state.
func (r *PostgresRepository) Create(ctx context.Context, c *models.Conversation) error {
	query := `INSERT INTO conversations (id, owner_id, original_filename, mime_type, size_bytes, storage_key, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.OwnerID, c.OriginalFilename, c.MimeType, c.SizeBytes, c.StorageKey, c.Status)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetByID returns the conversation with the given id owned by ownerID,
// or common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Conversation, error) {
	query := `SELECT ` + selectColumns + ` FROM conversations WHERE id=$1 AND owner_id=$2`
	c, err := scanConversation(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select conversation: %w", err)
	}
	return c, nil
}

// ListByOwner returns all conversations of ownerID, newest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Conversation, error) {
	query := `SELECT ` + selectColumns + ` FROM conversations WHERE owner_id=$1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select conversations: %w", err)
	}
	defer rows.Close()

	var result []*models.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// exec runs an owner-scoped single-row mutation and maps "no rows affected"
// to common.ErrorNotFound.
func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func (r *PostgresRepository) SetStorageKey(ctx context.Context, id, ownerID, storageKey string) error {
	query := `UPDATE conversations SET storage_key=$3, updated_at=now()
		WHERE id=$1 AND owner_id=$2`
	return r.exec(ctx, query, id, ownerID, storageKey)
}

func (r *PostgresRepository) UpdateUpload(ctx context.Context, id, ownerID, storageKey, filename, mimeType string, sizeBytes int64) error {
	query := `UPDATE conversations SET storage_key=$3, original_filename=$4, mime_type=$5, size_bytes=$6, updated_at=now()
		WHERE id=$1 AND owner_id=$2`
	return r.exec(ctx, query, id, ownerID, storageKey, filename, mimeType, sizeBytes)
}

func (r *PostgresRepository) SetTranscribed(ctx context.Context, id, ownerID, transcript string) error {
	query := `UPDATE conversations SET transcript_text=$3, summary_text=NULL, error_message=NULL, status=$4, updated_at=now()
		WHERE id=$1 AND owner_id=$2`
	return r.exec(ctx, query, id, ownerID, transcript, models.StatusTranscribed)
}

func (r *PostgresRepository) SetSummarized(ctx context.Context, id, ownerID, summary string) error {
	query := `UPDATE conversations SET summary_text=$3, error_message=NULL, status=$4, updated_at=now()
		WHERE id=$1 AND owner_id=$2`
	return r.exec(ctx, query, id, ownerID, summary, models.StatusSummarized)
}

func (r *PostgresRepository) SetFailed(ctx context.Context, id, ownerID, errorMessage string) error {
	query := `UPDATE conversations SET error_message=$3, status=$4, updated_at=now()
		WHERE id=$1 AND owner_id=$2`
	return r.exec(ctx, query, id, ownerID, errorMessage, models.StatusFailed)
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM conversations WHERE id=$1 AND owner_id=$2`
	return r.exec(ctx, query, id, ownerID)
}
