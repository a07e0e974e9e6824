package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yt-tagger/internal/platform/config"
	"yt-tagger/internal/platform/logger"
	"yt-tagger/internal/platform/metrics"
	"yt-tagger/internal/tagger"
	"yt-tagger/internal/tags"
	"yt-tagger/internal/transcript"

	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = config.Load()
	cfg := config.FromEnv()

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	upstream := &http.Client{Timeout: cfg.UpstreamTimeout}
	provider := transcript.NewYouTubeProvider(transcript.Options{
		Language:      cfg.TranscriptLanguage,
		HTTPClient:    upstream,
		RatePerSecond: cfg.YouTubeRatePerSec,
	})
	completer, err := tags.NewCompleter(cfg.TagBackend, tags.BackendOptions{
		Model:      cfg.TagModel,
		BaseURL:    cfg.TagBaseURL,
		HTTPClient: upstream,
	})
	if err != nil {
		log.Error("invalid tag backend", "backend", cfg.TagBackend, "error", err)
		os.Exit(1)
	}
	gen := tags.NewGenerator(completer, cfg.TranscriptLanguageName)

	met := metrics.New()
	svc := tagger.NewService(provider, gen, log, met, tagger.Options{
		DefaultAPIKey: cfg.GeminiAPIKey,
		MaxTags:       cfg.MaxTags,
		LanguageName:  cfg.TranscriptLanguageName,
		Timeout:       cfg.UpstreamTimeout,
	})
	h := tagger.NewHandler(svc, log)

	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", met.Handler())
	h.Routes(r)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server starting",
		"port", cfg.Port,
		"tag_backend", cfg.TagBackend,
		"transcript_language", provider.Language(),
		"server_key_configured", cfg.GeminiAPIKey != "",
		"log_level", cfg.LogLevel,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
