package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const requestTimeout = 60 * time.Second

const systemPrompt = "Summarize the following conversation transcript in a few sentences. " +
	"Keep the key decisions and action items."

// HTTPSummarizer posts the transcript to a chat-completions endpoint and
// returns the first choice's message content.
type HTTPSummarizer struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewHTTPSummarizer(baseURL, apiKey, model string) *HTTPSummarizer {
	return &HTTPSummarizer{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

func (s *HTTPSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	payload := map[string]any{
		"model": s.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": transcript},
		},
		"temperature": 0.0,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := s.baseURL + "/v1/chat/completions"

	var result string
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		if s.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+s.apiKey)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			return fmt.Errorf("summarizer server error: %s", string(body))
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("summarization failed: status=%d body=%s", resp.StatusCode, string(body)))
		}

		var parsed struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.Unmarshal(body, &parsed); err != nil {
			return fmt.Errorf("json decode error: %v body=%s", err, string(body))
		}
		if len(parsed.Choices) == 0 {
			return backoff.Permanent(fmt.Errorf("empty completion response"))
		}
		result = strings.TrimSpace(parsed.Choices[0].Message.Content)
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = requestTimeout
	// Retry unwraps Permanent, so op's error always reaches the caller.
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return "", err
	}
	return result, nil
}
