// Package speech converts audio streams to text. The backend is selected
// once at startup: an HTTP speech-recognition service or an offline stub.
package speech

import (
	"context"
	"io"
)

// Transcriber converts a readable audio stream to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}
