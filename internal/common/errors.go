// Package common defines sentinel errors and small helpers shared across
// server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors, rejected before any mutation.
	ErrorValidation    = errors.New("validation error")
	ErrorNoAudio       = errors.New("no audio available")
	ErrorNoTranscript  = errors.New("no transcript available")
	ErrorNotEligible   = errors.New("record is not eligible for re-upload")
	ErrorAlreadyExists = errors.New("already exists")

	// Processing errors (transcribe/summarize backends).
	ErrorProcessing = errors.New("processing error")

	// Auth errors.
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
