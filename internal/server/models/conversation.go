// Package models defines server-side data models persisted in the database.
package models

import "time"

// Status tracks where a conversation sits in the upload pipeline.
type Status string

const (
	// StatusInitial is set at creation. Combined with an empty StorageKey it
	// means the blob store failed or was never attempted, which is the only
	// state eligible for re-upload.
	StatusInitial Status = "initial"
	// StatusTranscribed means a transcript exists; the summary may be missing
	// since summarization is best-effort.
	StatusTranscribed Status = "transcribed"
	// StatusSummarized means both transcript and summary exist.
	StatusSummarized Status = "summarized"
	// StatusFailed means transcription failed after the blob was stored.
	StatusFailed Status = "failed"
)

// Valid reports whether s is one of the known pipeline states.
func (s Status) Valid() bool {
	switch s {
	case StatusInitial, StatusTranscribed, StatusSummarized, StatusFailed:
		return true
	}
	return false
}

// Conversation is one uploaded recording and everything derived from it.
type Conversation struct {
	// ID is assigned at creation and never changes.
	ID string
	// OwnerID scopes every read and write; records of other users are
	// indistinguishable from absent ones.
	OwnerID string

	// Upload metadata, replaced by a successful (re-)upload.
	OriginalFilename string
	MimeType         string
	SizeBytes        int64

	// StorageKey locates the blob in object storage. Empty string means
	// no blob is currently stored.
	StorageKey string

	Status Status

	// Transcript is set when transcription succeeds and cleared when the
	// transcript is regenerated.
	Transcript *string
	// Summary is derived from Transcript and is cleared whenever the
	// transcript changes, so a stale summary is never shown.
	Summary *string
	// ErrorMessage captures the failing stage's error; cleared when a
	// subsequent operation succeeds.
	ErrorMessage *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasStoredBlob reports whether a blob was ever successfully written for this
// record. Delete uses this to decide whether the object store needs cleanup;
// its negation is exactly the re-upload eligibility predicate.
func (c *Conversation) HasStoredBlob() bool {
	return c.Status != StatusInitial || c.StorageKey != ""
}
