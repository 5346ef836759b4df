// Package services contains server-side business logic. This file implements
// ConversationService, which drives an uploaded recording through the
// store → transcribe → summarize pipeline and exposes the recovery operations.
package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dbelyaev/recapd/internal/common"
	"github.com/dbelyaev/recapd/internal/logging"
	"github.com/dbelyaev/recapd/internal/server/models"
	"github.com/dbelyaev/recapd/internal/server/repositories/conversations"
	"github.com/dbelyaev/recapd/internal/server/speech"
	"github.com/dbelyaev/recapd/internal/server/storage"
	"github.com/dbelyaev/recapd/internal/server/summary"
	"github.com/google/uuid"
)

// MaxUploadBytes caps accepted audio files at 25 MiB, matching the hard
// limit of the transcription backend.
const MaxUploadBytes int64 = 25 << 20

const signedURLTTL = 15 * time.Minute

var allowedMimeTypes = map[string]struct{}{
	"audio/mpeg":  {},
	"audio/mp3":   {},
	"audio/mp4":   {},
	"audio/m4a":   {},
	"audio/x-m4a": {},
	"audio/wav":   {},
	"audio/x-wav": {},
	"audio/ogg":   {},
	"audio/webm":  {},
	"audio/flac":  {},
}

var allowedExtensions = map[string]struct{}{
	".mp3":  {},
	".m4a":  {},
	".mp4":  {},
	".wav":  {},
	".ogg":  {},
	".webm": {},
	".flac": {},
}

// Upload describes an incoming audio file.
type Upload struct {
	Filename    string
	ContentType string
	SizeBytes   int64
	Content     io.Reader
}

// ConversationService orchestrates the upload pipeline. All collaborators are
// injected so tests can substitute fakes.
type ConversationService struct {
	repo        conversations.Repository
	blobs       storage.BlobStore
	transcriber speech.Transcriber
	summarizer  summary.Summarizer
	logger      logging.Logger
}

// NewConversationService constructs the orchestrator.
func NewConversationService(repo conversations.Repository, blobs storage.BlobStore,
	transcriber speech.Transcriber, summarizer summary.Summarizer, logger logging.Logger) *ConversationService {
	return &ConversationService{
		repo:        repo,
		blobs:       blobs,
		transcriber: transcriber,
		summarizer:  summarizer,
		logger:      logger,
	}
}

// StorageKeyFor derives the blob key from the owner and record ids alone, so
// it can always be re-derived from the row.
func StorageKeyFor(ownerID, conversationID string) string {
	return fmt.Sprintf("audio/%s/%s", ownerID, conversationID)
}

// ValidateUpload checks the file type allow-list and size cap. It runs before
// any mutation.
func ValidateUpload(u Upload) error {
	if u.SizeBytes <= 0 {
		return fmt.Errorf("%w: empty file", common.ErrorValidation)
	}
	if u.SizeBytes > MaxUploadBytes {
		return fmt.Errorf("%w: file exceeds %d bytes", common.ErrorValidation, MaxUploadBytes)
	}

	mime := strings.ToLower(u.ContentType)
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if _, ok := allowedMimeTypes[mime]; ok {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(u.Filename))
	if _, ok := allowedExtensions[ext]; ok {
		return nil
	}
	return fmt.Errorf("%w: unsupported audio type %q", common.ErrorValidation, u.ContentType)
}

// Submit runs the primary pipeline for a new upload: create the record, store
// the blob, transcribe, summarize. The record is created before the blob
// write so every attempt is persisted; a storage failure leaves it in the
// initial state with an empty key, which is the re-upload precondition.
func (s *ConversationService) Submit(ctx context.Context, ownerID string, u Upload) (*models.Conversation, error) {
	if err := ValidateUpload(u); err != nil {
		return nil, err
	}

	conv := &models.Conversation{
		ID:               uuid.New().String(),
		OwnerID:          ownerID,
		OriginalFilename: u.Filename,
		MimeType:         u.ContentType,
		SizeBytes:        u.SizeBytes,
		Status:           models.StatusInitial,
	}
	if err := s.repo.Create(ctx, conv); err != nil {
		return nil, fmt.Errorf("creating conversation: %w", err)
	}

	key := StorageKeyFor(ownerID, conv.ID)
	if err := s.blobs.Put(ctx, key, u.Content, u.SizeBytes, u.ContentType); err != nil {
		// Row stays initial with an empty key: eligible for re-upload.
		s.logger.Error(ctx, "blob store failed", "conversation_id", conv.ID, "error", err.Error())
		return nil, fmt.Errorf("storing audio: %w", err)
	}
	if err := s.repo.SetStorageKey(ctx, conv.ID, ownerID, key); err != nil {
		return nil, fmt.Errorf("persisting storage key: %w", err)
	}
	conv.StorageKey = key

	return s.process(ctx, conv)
}

// process runs the transcribe → summarize continuation on a record whose blob
// is already stored. A transcription failure is fatal to the attempt; a
// summarization failure leaves the record at transcribed.
func (s *ConversationService) process(ctx context.Context, conv *models.Conversation) (*models.Conversation, error) {
	text, err := s.transcribeBlob(ctx, conv)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetTranscribed(ctx, conv.ID, conv.OwnerID, text); err != nil {
		return nil, fmt.Errorf("persisting transcript: %w", err)
	}
	conv.Transcript = &text
	conv.Summary = nil
	conv.ErrorMessage = nil
	conv.Status = models.StatusTranscribed

	sum, err := s.summarizer.Summarize(ctx, text)
	if err != nil {
		// Summary is best-effort: the transcript stands on its own.
		s.logger.Warn(ctx, "summarization failed", "conversation_id", conv.ID, "error", err.Error())
		return conv, nil
	}
	if err := s.repo.SetSummarized(ctx, conv.ID, conv.OwnerID, sum); err != nil {
		return nil, fmt.Errorf("persisting summary: %w", err)
	}
	conv.Summary = &sum
	conv.Status = models.StatusSummarized

	return conv, nil
}

// transcribeBlob reads the stored blob and transcribes it, marking the record
// failed on any error.
func (s *ConversationService) transcribeBlob(ctx context.Context, conv *models.Conversation) (string, error) {
	fail := func(cause error) (string, error) {
		if err := s.repo.SetFailed(ctx, conv.ID, conv.OwnerID, cause.Error()); err != nil {
			s.logger.Error(ctx, "failed to record pipeline error", "conversation_id", conv.ID, "error", err.Error())
		}
		return "", fmt.Errorf("%w: transcription: %v", common.ErrorProcessing, cause)
	}

	audio, err := s.blobs.Get(ctx, conv.StorageKey)
	if err != nil {
		return fail(err)
	}
	defer audio.Close()

	text, err := s.transcriber.Transcribe(ctx, audio, conv.OriginalFilename)
	if err != nil {
		return fail(err)
	}
	return text, nil
}

// Get returns a single conversation owned by ownerID.
func (s *ConversationService) Get(ctx context.Context, id, ownerID string) (*models.Conversation, error) {
	return s.repo.GetByID(ctx, id, ownerID)
}

// List returns all conversations owned by ownerID, newest first.
func (s *ConversationService) List(ctx context.Context, ownerID string) ([]*models.Conversation, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// RegenerateTranscript re-runs transcription on the existing blob. The old
// summary is dropped together with the old transcript, since it no longer
// matches.
func (s *ConversationService) RegenerateTranscript(ctx context.Context, id, ownerID string) (*models.Conversation, error) {
	conv, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if conv.StorageKey == "" {
		return nil, common.ErrorNoAudio
	}

	text, err := s.transcribeBlob(ctx, conv)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetTranscribed(ctx, id, ownerID, text); err != nil {
		return nil, fmt.Errorf("persisting transcript: %w", err)
	}
	return s.repo.GetByID(ctx, id, ownerID)
}

// RegenerateSummary re-runs summarization on the existing transcript. It
// never marks the record failed: a summary failure must not mask a valid
// transcript.
func (s *ConversationService) RegenerateSummary(ctx context.Context, id, ownerID string) (*models.Conversation, error) {
	conv, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if conv.Transcript == nil || *conv.Transcript == "" {
		return nil, common.ErrorNoTranscript
	}

	sum, err := s.summarizer.Summarize(ctx, *conv.Transcript)
	if err != nil {
		return nil, fmt.Errorf("%w: summarization: %v", common.ErrorProcessing, err)
	}
	if err := s.repo.SetSummarized(ctx, id, ownerID, sum); err != nil {
		return nil, fmt.Errorf("persisting summary: %w", err)
	}
	return s.repo.GetByID(ctx, id, ownerID)
}

// ReUpload retries a failed blob store on an existing record. Eligibility is
// exactly: status initial with an empty storage key. The record keeps its id,
// so external references survive the retry.
func (s *ConversationService) ReUpload(ctx context.Context, id, ownerID string, u Upload) (*models.Conversation, error) {
	conv, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if conv.Status != models.StatusInitial || conv.StorageKey != "" {
		return nil, common.ErrorNotEligible
	}
	if err := ValidateUpload(u); err != nil {
		return nil, err
	}

	key := StorageKeyFor(ownerID, conv.ID)
	if err := s.blobs.Put(ctx, key, u.Content, u.SizeBytes, u.ContentType); err != nil {
		s.logger.Error(ctx, "blob store failed", "conversation_id", conv.ID, "error", err.Error())
		return nil, fmt.Errorf("storing audio: %w", err)
	}
	if err := s.repo.UpdateUpload(ctx, id, ownerID, key, u.Filename, u.ContentType, u.SizeBytes); err != nil {
		return nil, fmt.Errorf("persisting upload: %w", err)
	}
	conv.StorageKey = key
	conv.OriginalFilename = u.Filename
	conv.MimeType = u.ContentType
	conv.SizeBytes = u.SizeBytes

	return s.process(ctx, conv)
}

// Delete removes the record and, when a blob was ever stored, the blob. A
// blob deletion failure is logged and does not block the row deletion: the
// database is the source of truth, and an orphaned blob beats a record the
// user cannot remove.
func (s *ConversationService) Delete(ctx context.Context, id, ownerID string) error {
	conv, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if conv.HasStoredBlob() {
		if err := s.blobs.Delete(ctx, conv.StorageKey); err != nil {
			s.logger.Warn(ctx, "failed to delete blob", "conversation_id", id, "storage_key", conv.StorageKey, "error", err.Error())
		}
	}

	return s.repo.Delete(ctx, id, ownerID)
}

// SignedAudioURL returns a time-limited read URL for the stored blob.
func (s *ConversationService) SignedAudioURL(ctx context.Context, id, ownerID string) (string, error) {
	conv, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return "", err
	}
	if conv.StorageKey == "" {
		return "", common.ErrorNoAudio
	}
	return s.blobs.SignedReadURL(ctx, conv.StorageKey, signedURLTTL)
}
