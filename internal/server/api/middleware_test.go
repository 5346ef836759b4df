package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbelyaev/recapd/internal/server/auth"
)

func TestBearerAuth(t *testing.T) {
	var gotOwner string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOwner = OwnerID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := BearerAuth(testSecret)(next)

	t.Run("valid token", func(t *testing.T) {
		token, err := auth.GenerateToken("user-42", testSecret, time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/transcripts", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-42", gotOwner)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/transcripts", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/transcripts", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := auth.GenerateToken("user-42", testSecret, -time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/transcripts", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		token, err := auth.GenerateToken("user-42", []byte("other-secret"), time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/transcripts", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOwnerID_NoMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, OwnerID(req.Context()))
}
