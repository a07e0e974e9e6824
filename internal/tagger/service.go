package tagger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"yt-tagger/internal/platform/metrics"
	"yt-tagger/internal/resolver"
	"yt-tagger/internal/tags"
	"yt-tagger/internal/transcript"
)

// DefaultTimeout bounds each upstream call when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// TagGenerator produces tags for a transcript. *tags.Generator implements it.
type TagGenerator interface {
	Generate(ctx context.Context, transcript, apiKey string, maxTags int) ([]string, error)
}

// Options configures a Service.
type Options struct {
	// DefaultAPIKey is used when a caller supplies no key of its own.
	DefaultAPIKey string
	MaxTags       int
	LanguageName  string
	Timeout       time.Duration
}

// Service runs the resolve, transcript and tags stages in order. Every stage
// failure is terminal: later stages are not attempted and nothing is retried.
type Service struct {
	provider transcript.Provider
	gen      TagGenerator
	log      *slog.Logger
	metrics  *metrics.Metrics

	defaultKey   string
	maxTags      int
	languageName string
	timeout      time.Duration
}

// NewService returns a Service. Metrics may be nil to disable metric recording.
func NewService(provider transcript.Provider, gen TagGenerator, log *slog.Logger, m *metrics.Metrics, opts Options) *Service {
	if opts.MaxTags <= 0 {
		opts.MaxTags = tags.DefaultMaxTags
	}
	if opts.LanguageName == "" {
		opts.LanguageName = tags.DefaultLanguageName
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Service{
		provider:     provider,
		gen:          gen,
		log:          log,
		metrics:      m,
		defaultKey:   opts.DefaultAPIKey,
		maxTags:      opts.MaxTags,
		languageName: opts.LanguageName,
		timeout:      opts.Timeout,
	}
}

// LanguageName is the human readable transcript language, e.g. "Malayalam".
func (s *Service) LanguageName() string {
	return s.languageName
}

// ResolveURL extracts the video id from raw. A nil raw is treated as missing input.
func (s *Service) ResolveURL(raw *string) (resolver.VideoID, error) {
	id, err := resolver.ResolvePtr(raw)
	s.observe(StageResolve, err)
	if err != nil {
		return "", stageErr(StageResolve, err)
	}
	return id, nil
}

// Transcript fetches the transcript of videoID. A track without any text is
// reported as transcript.ErrNoTranscript.
func (s *Service) Transcript(ctx context.Context, videoID string) (*transcript.Transcript, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	tr, err := s.provider.Fetch(ctx, videoID)
	s.observeUpstream(StageTranscript, time.Since(start))
	if err == nil && tr.Text() == "" {
		err = fmt.Errorf("%w: %s has an empty track", transcript.ErrNoTranscript, videoID)
	}
	s.observe(StageTranscript, err)
	if err != nil {
		return nil, stageErr(StageTranscript, err)
	}
	return tr, nil
}

// Tags generates at most maxTags tags for text. An empty apiKey falls back to
// the configured default; maxTags <= 0 uses the configured maximum.
func (s *Service) Tags(ctx context.Context, text, apiKey string, maxTags int) ([]string, error) {
	if apiKey == "" {
		apiKey = s.defaultKey
	}
	if maxTags <= 0 {
		maxTags = s.maxTags
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	out, err := s.gen.Generate(ctx, text, apiKey, maxTags)
	s.observeUpstream(StageTags, time.Since(start))
	s.observe(StageTags, err)
	if err != nil {
		return nil, stageErr(StageTags, err)
	}
	if s.metrics != nil {
		s.metrics.AddTags(len(out))
	}
	return out, nil
}

// Extract resolves req.URL, fetches its transcript and, unless
// req.TranscriptOnly is set, generates tags for it.
func (s *Service) Extract(ctx context.Context, req ExtractRequest) (*ExtractResult, error) {
	id, err := s.ResolveURL(req.URL)
	if err != nil {
		return nil, err
	}

	tr, err := s.Transcript(ctx, string(id))
	if err != nil {
		return nil, err
	}

	res := &ExtractResult{
		VideoID:    string(id),
		Language:   tr.Language,
		Kind:       tr.Kind,
		Transcript: tr.Text(),
	}
	if req.TranscriptOnly {
		return res, nil
	}

	res.Tags, err = s.Tags(ctx, res.Transcript, req.APIKey, req.MaxTags)
	if err != nil {
		return nil, err
	}

	s.log.Debug("extract completed",
		slog.String("video_id", res.VideoID),
		slog.String("kind", string(res.Kind)),
		slog.Int("tags", len(res.Tags)))
	return res, nil
}

func (s *Service) observe(stage Stage, err error) {
	if s.metrics != nil {
		s.metrics.ObserveStage(string(stage), err)
	}
}

func (s *Service) observeUpstream(stage Stage, d time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveUpstream(string(stage), d)
	}
}
