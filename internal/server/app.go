// Package server initializes and runs the application: database, migrations,
// object storage, the transcription/summarization backends, and the HTTP
// server with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dbelyaev/recapd/internal/logging"
	"github.com/dbelyaev/recapd/internal/server/api"
	"github.com/dbelyaev/recapd/internal/server/config"
	"github.com/dbelyaev/recapd/internal/server/repositories/repomanager"
	"github.com/dbelyaev/recapd/internal/server/services"
	"github.com/dbelyaev/recapd/internal/server/speech"
	"github.com/dbelyaev/recapd/internal/server/storage"
	"github.com/dbelyaev/recapd/internal/server/summary"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler http.Handler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	blobs, err := storage.NewS3Store(ctx, storage.S3Options{
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("object storage init error: %w", err)
	}

	transcriber, summarizer := newPipeline(cfg)

	conversationService := services.NewConversationService(
		m.Conversations(db), blobs, transcriber, summarizer, logger)
	userService := services.NewUserService(db, m, cfg)

	handler := api.NewHandler(api.Deps{
		Conversations: conversationService,
		Users:         userService,
		JWTSecret:     []byte(cfg.SecretKey),
	})

	return &App{config: cfg, logger: logger, db: db, handler: handler}, nil
}

// newPipeline selects the transcription and summarization backends. Stub mode
// keeps the whole pipeline runnable offline and in tests.
func newPipeline(cfg *config.Config) (speech.Transcriber, summary.Summarizer) {
	if cfg.PipelineMode == config.PipelineModeLive {
		return speech.NewHTTPTranscriber(cfg.TranscriberURL, cfg.TranscriberAPIKey, cfg.TranscriberModel),
			summary.NewHTTPSummarizer(cfg.SummarizerURL, cfg.SummarizerAPIKey, cfg.SummarizerModel)
	}
	return speech.NewStubTranscriber(), summary.NewStubSummarizer()
}

// Run serves HTTP until ctx is canceled or an OS signal arrives, then shuts
// down gracefully and closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.handler,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	app.logger.Info(ctx, "server listening",
		"addr", app.config.EndpointAddr,
		"pipeline_mode", app.config.PipelineMode)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return app.db.Close()
}
