// Package summary condenses transcripts into short summaries. The backend is
// selected once at startup: an HTTP chat-completions service or an offline stub.
package summary

import "context"

// Summarizer converts transcript text to a short summary.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}
