package summary

import (
	"context"
	"strings"
)

// StubSummarizer is a deterministic offline stand-in: it returns the first
// sentence of the transcript, truncated to a fixed length.
type StubSummarizer struct{}

const stubMaxLen = 120

func NewStubSummarizer() *StubSummarizer {
	return &StubSummarizer{}
}

func (s *StubSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	text := strings.TrimSpace(transcript)
	if i := strings.IndexAny(text, ".!?"); i >= 0 {
		text = text[:i+1]
	}
	if len(text) > stubMaxLen {
		text = text[:stubMaxLen]
	}
	return "Summary: " + text, nil
}
