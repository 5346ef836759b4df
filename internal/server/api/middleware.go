package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/dbelyaev/recapd/internal/server/auth"
)

type contextKey string

const ownerIDKey contextKey = "ownerID"

// BearerAuth verifies the Authorization header carries a valid access token
// and stores the authenticated owner id in the request context.
func BearerAuth(secretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				httpError(w, http.StatusUnauthorized, "authentication_error", "missing bearer token")
				return
			}
			userID, err := auth.GetUserIDFromToken(header[len(prefix):], secretKey)
			if err != nil {
				serviceError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), ownerIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OwnerID returns the authenticated owner id stored by BearerAuth, or ""
// when the request did not pass through the middleware.
func OwnerID(ctx context.Context) string {
	id, _ := ctx.Value(ownerIDKey).(string)
	return id
}
