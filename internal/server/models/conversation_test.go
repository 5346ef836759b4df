package models

import "testing"

func TestStatus_Valid(t *testing.T) {
	for _, s := range []Status{StatusInitial, StatusTranscribed, StatusSummarized, StatusFailed} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if Status("queued").Valid() {
		t.Error("unknown status should be invalid")
	}
}

func TestConversation_HasStoredBlob(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		key    string
		want   bool
	}{
		{"initial without key", StatusInitial, "", false},
		{"initial with key", StatusInitial, "audio/u1/c1", true},
		{"failed without key", StatusFailed, "", true},
		{"summarized with key", StatusSummarized, "audio/u1/c1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Conversation{Status: tt.status, StorageKey: tt.key}
			if got := c.HasStoredBlob(); got != tt.want {
				t.Errorf("HasStoredBlob() = %v, want %v", got, tt.want)
			}
		})
	}
}
