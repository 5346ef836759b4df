package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dbelyaev/recapd/internal/common"
	"github.com/dbelyaev/recapd/internal/server/models"
	"github.com/dbelyaev/recapd/internal/server/services"
)

// transcriptPreviewLen bounds the transcript excerpt returned by list and
// mutation responses; the full text is available from the single-record GET.
const transcriptPreviewLen = 300

// multipartMemoryLimit bounds how much of a parsed multipart body is held in
// memory; the rest spills to temp files.
const multipartMemoryLimit = 4 << 20

// Conversations is the slice of the conversation service the handlers use.
type Conversations interface {
	Submit(ctx context.Context, ownerID string, u services.Upload) (*models.Conversation, error)
	Get(ctx context.Context, id, ownerID string) (*models.Conversation, error)
	List(ctx context.Context, ownerID string) ([]*models.Conversation, error)
	RegenerateTranscript(ctx context.Context, id, ownerID string) (*models.Conversation, error)
	RegenerateSummary(ctx context.Context, id, ownerID string) (*models.Conversation, error)
	ReUpload(ctx context.Context, id, ownerID string, u services.Upload) (*models.Conversation, error)
	Delete(ctx context.Context, id, ownerID string) error
	SignedAudioURL(ctx context.Context, id, ownerID string) (string, error)
}

// Users is the slice of the user service the auth handlers use.
type Users interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

type conversationResponse struct {
	ID                string  `json:"id"`
	Status            string  `json:"status"`
	OriginalFilename  string  `json:"originalFilename"`
	MimeType          string  `json:"mimeType,omitempty"`
	SizeBytes         int64   `json:"sizeBytes,omitempty"`
	TranscriptPreview *string `json:"transcriptPreview,omitempty"`
	Transcript        *string `json:"transcript,omitempty"`
	Summary           *string `json:"summary,omitempty"`
	ErrorMessage      *string `json:"errorMessage,omitempty"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

func toResponse(c *models.Conversation, fullTranscript bool) conversationResponse {
	resp := conversationResponse{
		ID:               c.ID,
		Status:           string(c.Status),
		OriginalFilename: c.OriginalFilename,
		MimeType:         c.MimeType,
		SizeBytes:        c.SizeBytes,
		Summary:          c.Summary,
		ErrorMessage:     c.ErrorMessage,
		CreatedAt:        c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        c.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if fullTranscript {
		resp.Transcript = c.Transcript
	} else if c.Transcript != nil {
		preview := *c.Transcript
		// Truncate on rune boundaries so a multi-byte character is never
		// split mid-sequence.
		if runes := []rune(preview); len(runes) > transcriptPreviewLen {
			preview = string(runes[:transcriptPreviewLen])
		}
		resp.TranscriptPreview = &preview
	}
	return resp
}

// uploadFromRequest extracts the multipart "audio" field as a service Upload.
// It does not read the file content; the service streams it to storage.
func uploadFromRequest(w http.ResponseWriter, r *http.Request) (*services.Upload, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxUploadBytes+multipartMemoryLimit)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		return nil, nil, errors.New("request is not valid multipart form data")
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		return nil, nil, errors.New("missing multipart field \"audio\"")
	}
	u := &services.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		SizeBytes:   header.Size,
		Content:     file,
	}
	return u, func() { file.Close() }, nil
}

func handleUpload(svc Conversations) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, cleanup, err := uploadFromRequest(w, r)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}
		defer cleanup()

		conv, err := svc.Submit(r.Context(), OwnerID(r.Context()), *u)
		if err != nil {
			// On initial upload a transcription failure is a server-side
			// pipeline fault, not a bad request.
			if errors.Is(err, common.ErrorProcessing) {
				httpError(w, http.StatusInternalServerError, "processing_error", "%v", err)
				return
			}
			serviceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(conv, false))
	}
}

func handleList(svc Conversations) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		convs, err := svc.List(r.Context(), OwnerID(r.Context()))
		if err != nil {
			serviceError(w, err)
			return
		}
		resp := make([]conversationResponse, 0, len(convs))
		for _, c := range convs {
			resp = append(resp, toResponse(c, false))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleGet(svc Conversations) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conv, err := svc.Get(r.Context(), chi.URLParam(r, "id"), OwnerID(r.Context()))
		if err != nil {
			serviceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(conv, true))
	}
}

func handleDelete(svc Conversations) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id"), OwnerID(r.Context())); err != nil {
			serviceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleRegenerateTranscript(svc Conversations) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conv, err := svc.RegenerateTranscript(r.Context(), chi.URLParam(r, "id"), OwnerID(r.Context()))
		if err != nil {
			serviceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(conv, false))
	}
}

func handleRegenerateSummary(svc Conversations) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conv, err := svc.RegenerateSummary(r.Context(), chi.URLParam(r, "id"), OwnerID(r.Context()))
		if err != nil {
			serviceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(conv, false))
	}
}

func handleReUpload(svc Conversations) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, cleanup, err := uploadFromRequest(w, r)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}
		defer cleanup()

		conv, err := svc.ReUpload(r.Context(), chi.URLParam(r, "id"), OwnerID(r.Context()), *u)
		if err != nil {
			serviceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(conv, false))
	}
}

func handleAudioRedirect(svc Conversations) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url, err := svc.SignedAudioURL(r.Context(), chi.URLParam(r, "id"), OwnerID(r.Context()))
		if err != nil {
			serviceError(w, err)
			return
		}
		http.Redirect(w, r, url, http.StatusTemporaryRedirect)
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func handleRegister(svc Users) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := decodeBody(r, &req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		user, err := svc.Register(r.Context(), req.Email, req.Password)
		if err != nil {
			serviceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{
			"id":    user.ID,
			"email": user.Email,
		})
	}
}

func handleLogin(svc Users) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := decodeBody(r, &req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		pair, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			serviceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tokenPairResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		})
	}
}

func handleRefresh(svc Users) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := decodeBody(r, &req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		pair, err := svc.RefreshToken(r.Context(), req.RefreshToken)
		if err != nil {
			serviceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tokenPairResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		})
	}
}

func handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
