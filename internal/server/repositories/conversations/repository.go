package conversations

import (
	"context"

	"github.com/dbelyaev/recapd/internal/server/models"
)

// Repository persists conversation rows. Every method that targets a single
// row is scoped by (id, ownerID); a row owned by someone else behaves exactly
// like a missing one.
type Repository interface {
	Create(ctx context.Context, c *models.Conversation) error
	GetByID(ctx context.Context, id, ownerID string) (*models.Conversation, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Conversation, error)

	// SetStorageKey records a successful blob write during submit.
	SetStorageKey(ctx context.Context, id, ownerID, storageKey string) error
	// UpdateUpload replaces the storage key and upload metadata after a
	// successful re-upload.
	UpdateUpload(ctx context.Context, id, ownerID, storageKey, filename, mimeType string, sizeBytes int64) error
	// SetTranscribed stores a fresh transcript. The summary and error message
	// are always cleared: the old summary no longer matches the transcript.
	SetTranscribed(ctx context.Context, id, ownerID, transcript string) error
	// SetSummarized stores a summary and clears the error message.
	SetSummarized(ctx context.Context, id, ownerID, summary string) error
	// SetFailed marks the record failed with the stage's error message.
	SetFailed(ctx context.Context, id, ownerID, errorMessage string) error

	Delete(ctx context.Context, id, ownerID string) error
}
