// Package api exposes the HTTP surface: upload, listing, recovery operations,
// and the auth endpoints that mint the tokens the rest of the API requires.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps collects everything the router needs.
type Deps struct {
	Conversations Conversations
	Users         Users
	JWTSecret     []byte
}

// NewHandler builds the full route tree. Everything under /transcripts and
// /upload requires a bearer access token; /auth/* and /health do not.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", handleHealth())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handleRegister(deps.Users))
		r.Post("/login", handleLogin(deps.Users))
		r.Post("/refresh", handleRefresh(deps.Users))
	})

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.JWTSecret))

		r.Post("/upload", handleUpload(deps.Conversations))
		r.Route("/transcripts", func(r chi.Router) {
			r.Get("/", handleList(deps.Conversations))
			r.Get("/{id}", handleGet(deps.Conversations))
			r.Delete("/{id}", handleDelete(deps.Conversations))
			r.Get("/{id}/audio", handleAudioRedirect(deps.Conversations))
			r.Put("/{id}/regenerate-transcript", handleRegenerateTranscript(deps.Conversations))
			r.Put("/{id}/regenerate-summary", handleRegenerateSummary(deps.Conversations))
			r.Post("/{id}/re-upload", handleReUpload(deps.Conversations))
		})
	})

	return r
}
