package transcript

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kkdai/youtube/v2"
	"golang.org/x/time/rate"
)

const legacyXML = `<?xml version="1.0" encoding="utf-8" ?>
<transcript>
<text start="0.5" dur="2.1">നമസ്കാരം</text>
<text start="2.6" dur="1.9">ഇത് &amp;#39;ഒരു&amp;#39;
പരീക്ഷണം</text>
<text start="4.5" dur="1">   </text>
<text start="5.5" dur="2">അവസാനം</text>
</transcript>`

const format3XML = `<?xml version="1.0" encoding="utf-8" ?>
<timedtext format="3"><body>
<p t="1200" d="3400"><s>കേരളം</s><s>സുന്ദരം</s></p>
<p t="4600" d="1000">ഒന്ന്</p>
</body></timedtext>`

type fakeLookup struct {
	video *youtube.Video
	err   error
	calls int
}

func (f *fakeLookup) GetVideoContext(ctx context.Context, id string) (*youtube.Video, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.video, nil
}

func newCaptionServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/manual", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(legacyXML))
	})
	mux.HandleFunc("/asr", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(format3XML))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/garbage", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<transcript><text"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestYouTubeProvider_Fetch_prefers_manual_track(t *testing.T) {
	srv := newCaptionServer(t)
	lookup := &fakeLookup{video: &youtube.Video{
		ID: "abc123",
		CaptionTracks: []youtube.CaptionTrack{
			{BaseURL: srv.URL + "/asr", LanguageCode: "ml", Kind: "asr"},
			{BaseURL: srv.URL + "/broken", LanguageCode: "en"},
			{BaseURL: srv.URL + "/manual", LanguageCode: "ml"},
		},
	}}
	p := newProvider(lookup, srv.Client(), "")

	tr, err := p.Fetch(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if tr.Kind != KindManual {
		t.Errorf("Kind = %q, want manual", tr.Kind)
	}
	if tr.Language != DefaultLanguage || tr.VideoID != "abc123" {
		t.Errorf("unexpected transcript header: %+v", tr)
	}
	if len(tr.Segments) != 3 {
		t.Fatalf("expected 3 non-empty segments, got %d: %+v", len(tr.Segments), tr.Segments)
	}
	if tr.Segments[0].Start != 500*time.Millisecond || tr.Segments[0].Duration != 2100*time.Millisecond {
		t.Errorf("unexpected timing: %+v", tr.Segments[0])
	}
	want := "നമസ്കാരം ഇത് 'ഒരു' പരീക്ഷണം അവസാനം"
	if got := tr.Text(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestYouTubeProvider_Fetch_falls_back_to_generated(t *testing.T) {
	srv := newCaptionServer(t)
	lookup := &fakeLookup{video: &youtube.Video{
		ID: "abc123",
		CaptionTracks: []youtube.CaptionTrack{
			{BaseURL: srv.URL + "/broken", LanguageCode: "en"},
			{BaseURL: srv.URL + "/asr", LanguageCode: "ml", Kind: "asr"},
		},
	}}
	p := newProvider(lookup, srv.Client(), "ml")

	tr, err := p.Fetch(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if tr.Kind != KindGenerated {
		t.Errorf("Kind = %q, want generated", tr.Kind)
	}
	if got := tr.Text(); got != "കേരളം സുന്ദരം ഒന്ന്" {
		t.Errorf("Text() = %q", got)
	}
	if tr.Segments[0].Start != 1200*time.Millisecond {
		t.Errorf("Start = %v, want 1.2s", tr.Segments[0].Start)
	}
}

func TestYouTubeProvider_Fetch_no_track_for_language(t *testing.T) {
	srv := newCaptionServer(t)
	lookup := &fakeLookup{video: &youtube.Video{
		ID: "abc123",
		CaptionTracks: []youtube.CaptionTrack{
			{BaseURL: srv.URL + "/manual", LanguageCode: "en"},
			{BaseURL: srv.URL + "/asr", LanguageCode: "hi", Kind: "asr"},
		},
	}}
	p := newProvider(lookup, srv.Client(), "ml")

	_, err := p.Fetch(context.Background(), "abc123")
	if !errors.Is(err, ErrNoTranscript) {
		t.Errorf("expected ErrNoTranscript, got %v", err)
	}

	lookup.video.CaptionTracks = nil
	if _, err := p.Fetch(context.Background(), "abc123"); !errors.Is(err, ErrNoTranscript) {
		t.Errorf("no tracks: expected ErrNoTranscript, got %v", err)
	}
}

func TestYouTubeProvider_Fetch_video_unavailable(t *testing.T) {
	cause := errors.New("this video is private")
	p := newProvider(&fakeLookup{err: cause}, http.DefaultClient, "ml")

	_, err := p.Fetch(context.Background(), "abc123")
	if !errors.Is(err, ErrVideoUnavailable) {
		t.Errorf("expected ErrVideoUnavailable, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped, got %v", err)
	}
}

func TestYouTubeProvider_Fetch_timedtext_failures(t *testing.T) {
	srv := newCaptionServer(t)

	for _, path := range []string{"/broken", "/garbage"} {
		t.Run(path, func(t *testing.T) {
			lookup := &fakeLookup{video: &youtube.Video{
				ID:            "abc123",
				CaptionTracks: []youtube.CaptionTrack{{BaseURL: srv.URL + path, LanguageCode: "ml"}},
			}}
			p := newProvider(lookup, srv.Client(), "ml")
			_, err := p.Fetch(context.Background(), "abc123")
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, ErrNoTranscript) || errors.Is(err, ErrVideoUnavailable) {
				t.Errorf("timedtext failure should not map to a lookup sentinel: %v", err)
			}
		})
	}
}

func TestSelectTrack(t *testing.T) {
	tracks := []youtube.CaptionTrack{
		{BaseURL: "a", LanguageCode: "ml", Kind: "asr"},
		{BaseURL: "b", LanguageCode: "ml"},
	}
	got, kind, ok := selectTrack(tracks, "ml")
	if !ok || got.BaseURL != "b" || kind != KindManual {
		t.Errorf("got %q %q %v, want manual track b", got.BaseURL, kind, ok)
	}

	if _, _, ok := selectTrack(tracks, "ta"); ok {
		t.Error("expected no track for ta")
	}
}

func TestTranscript_Text(t *testing.T) {
	var nilTranscript *Transcript
	if got := nilTranscript.Text(); got != "" {
		t.Errorf("nil Text() = %q", got)
	}

	tr := &Transcript{Segments: []Segment{{Text: " a"}, {Text: "b"}, {Text: "c "}}}
	if got := tr.Text(); got != "a b c" {
		t.Errorf("Text() = %q, want %q", got, "a b c")
	}
}

func TestWithLimiter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	hc := withLimiter(srv.Client(), rate.NewLimiter(rate.Every(time.Hour), 1))

	resp, err := hc.Get(srv.URL)
	if err != nil {
		t.Fatalf("first request should pass: %v", err)
	}
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	if resp, err := hc.Do(req); err == nil {
		resp.Body.Close()
		t.Fatal("second request should be blocked by the limiter")
	}
}

func TestNewYouTubeProvider_defaults(t *testing.T) {
	p := NewYouTubeProvider(Options{RatePerSecond: 2})
	if p.Language() != DefaultLanguage {
		t.Errorf("Language() = %q, want %q", p.Language(), DefaultLanguage)
	}
	if _, ok := p.http.Transport.(*limitedTransport); !ok {
		t.Errorf("expected rate limited transport, got %T", p.http.Transport)
	}
}
