package transcript

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kkdai/youtube/v2"
	"golang.org/x/time/rate"
)

const (
	// asrKind marks auto-generated caption tracks in YouTube player data.
	asrKind = "asr"

	maxTimedTextBytes = 4 << 20
	defaultTimeout    = 30 * time.Second
	userAgent         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// videoLookup is the part of the YouTube client the provider needs.
type videoLookup interface {
	GetVideoContext(ctx context.Context, id string) (*youtube.Video, error)
}

// Options configures a YouTubeProvider.
type Options struct {
	// Language is the caption language code; DefaultLanguage when empty.
	Language string
	// HTTPClient is used for player and timed-text requests. A client with
	// a 30s timeout is created when nil.
	HTTPClient *http.Client
	// RatePerSecond limits outbound YouTube requests. Zero disables limiting.
	RatePerSecond float64
}

// YouTubeProvider implements Provider using YouTube caption tracks.
type YouTubeProvider struct {
	videos   videoLookup
	http     *http.Client
	language string
}

// NewYouTubeProvider returns a provider backed by github.com/kkdai/youtube.
func NewYouTubeProvider(opts Options) *YouTubeProvider {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	if opts.RatePerSecond > 0 {
		hc = withLimiter(hc, rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1))
	}
	return newProvider(&youtube.Client{HTTPClient: hc}, hc, opts.Language)
}

func newProvider(videos videoLookup, hc *http.Client, language string) *YouTubeProvider {
	if language == "" {
		language = DefaultLanguage
	}
	return &YouTubeProvider{videos: videos, http: hc, language: language}
}

// Language returns the caption language this provider requests.
func (p *YouTubeProvider) Language() string {
	return p.language
}

// Fetch looks up the video's caption tracks, picks the manual track in the
// provider language, falling back to the auto-generated one, and downloads it.
func (p *YouTubeProvider) Fetch(ctx context.Context, videoID string) (*Transcript, error) {
	video, err := p.videos.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrVideoUnavailable, videoID, err)
	}

	track, kind, ok := selectTrack(video.CaptionTracks, p.language)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %q captions", ErrNoTranscript, videoID, p.language)
	}

	segments, err := p.fetchTimedText(ctx, track.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s captions for %s: %w", p.language, videoID, err)
	}

	return &Transcript{
		VideoID:  videoID,
		Language: p.language,
		Kind:     kind,
		Segments: segments,
	}, nil
}

// selectTrack returns the manual track for lang if present, else the
// auto-generated one. Tracks in other languages are never considered.
func selectTrack(tracks []youtube.CaptionTrack, lang string) (youtube.CaptionTrack, Kind, bool) {
	for _, t := range tracks {
		if t.LanguageCode == lang && t.Kind != asrKind {
			return t, KindManual, true
		}
	}
	for _, t := range tracks {
		if t.LanguageCode == lang && t.Kind == asrKind {
			return t, KindGenerated, true
		}
	}
	return youtube.CaptionTrack{}, "", false
}

func (p *YouTubeProvider) fetchTimedText(ctx context.Context, baseURL string) ([]Segment, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("caption track has no url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timedtext: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTimedTextBytes))
	if err != nil {
		return nil, err
	}
	return decodeTimedText(body)
}

// limitedTransport waits on a shared limiter before every round trip.
type limitedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// withLimiter returns a copy of hc whose transport is rate limited.
func withLimiter(hc *http.Client, limiter *rate.Limiter) *http.Client {
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	limited := *hc
	limited.Transport = &limitedTransport{base: base, limiter: limiter}
	return &limited
}
