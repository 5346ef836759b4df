package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const requestTimeout = 2 * time.Minute

// HTTPTranscriber posts audio to a whisper-style transcription endpoint
// (multipart field "file", JSON response with a "text" field).
type HTTPTranscriber struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewHTTPTranscriber(baseURL, apiKey, model string) *HTTPTranscriber {
	return &HTTPTranscriber{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

func (t *HTTPTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	// The body is buffered once so retries can resend it.
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("reading audio: %w", err)
	}
	if t.model != "" {
		_ = w.WriteField("model", t.model)
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	endpoint := t.baseURL + "/v1/audio/transcriptions"

	var text string
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf.Bytes()))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", w.FormDataContentType())
		if t.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+t.apiKey)
		}

		resp, err := t.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			return fmt.Errorf("transcription server error: %s", string(body))
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("transcription failed: status=%d body=%s", resp.StatusCode, string(body)))
		}

		var parsed struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(body, &parsed); err != nil {
			return fmt.Errorf("json decode error: %v body=%s", err, string(body))
		}
		text = parsed.Text
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = requestTimeout
	// Retry unwraps Permanent, so op's error always reaches the caller.
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return "", err
	}
	return text, nil
}
