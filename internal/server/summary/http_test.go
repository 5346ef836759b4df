package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPSummarizer_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "test-model" || len(req.Messages) != 2 {
			t.Errorf("unexpected request: %+v", req)
		}
		fmt.Fprint(w, `{"choices":[{"message":{"content":" They agreed to ship on Friday. "}}]}`)
	}))
	defer srv.Close()

	s := NewHTTPSummarizer(srv.URL, "key", "test-model")
	got, err := s.Summarize(context.Background(), "long transcript here")
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	if got != "They agreed to ship on Friday." {
		t.Errorf("summary = %q", got)
	}
}

func TestHTTPSummarizer_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	s := NewHTTPSummarizer(srv.URL, "", "m")
	if _, err := s.Summarize(context.Background(), "t"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestHTTPSummarizer_InvalidBaseURL(t *testing.T) {
	s := NewHTTPSummarizer("http://bad host", "", "m")
	got, err := s.Summarize(context.Background(), "some transcript")
	if err == nil {
		t.Fatal("expected error for an unparsable endpoint URL")
	}
	if got != "" {
		t.Errorf("summary = %q, want empty on failure", got)
	}
}

func TestStubSummarizer(t *testing.T) {
	s := NewStubSummarizer()

	got, err := s.Summarize(context.Background(), "First sentence. Second sentence.")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Summary: First sentence." {
		t.Errorf("summary = %q", got)
	}

	long := strings.Repeat("a", 500)
	got, err = s.Summarize(context.Background(), long)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) > len("Summary: ")+stubMaxLen {
		t.Errorf("summary too long: %d chars", len(got))
	}
}
