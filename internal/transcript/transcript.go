package transcript

import (
	"context"
	"errors"
	"strings"
	"time"
)

// DefaultLanguage is the caption language requested from YouTube (Malayalam).
const DefaultLanguage = "ml"

var (
	// ErrNoTranscript is returned when the video has neither a manual nor an
	// auto-generated caption track in the requested language.
	ErrNoTranscript = errors.New("no transcript for requested language")

	// ErrVideoUnavailable is returned when the video cannot be looked up,
	// e.g. because it is private, deleted or the id is invalid.
	ErrVideoUnavailable = errors.New("video unavailable")
)

// Kind tells whether a caption track was authored or generated by speech recognition.
type Kind string

const (
	KindManual    Kind = "manual"
	KindGenerated Kind = "generated"
)

// Segment is a single timed cue of a caption track.
type Segment struct {
	Text     string        `json:"text"`
	Start    time.Duration `json:"start"`
	Duration time.Duration `json:"duration"`
}

// Transcript is an ordered caption track for one video and language.
type Transcript struct {
	VideoID  string    `json:"video_id"`
	Language string    `json:"language"`
	Kind     Kind      `json:"kind"`
	Segments []Segment `json:"segments"`
}

// Text joins the segment texts with single spaces and trims the result.
func (t *Transcript) Text() string {
	if t == nil {
		return ""
	}
	parts := make([]string, 0, len(t.Segments))
	for _, seg := range t.Segments {
		parts = append(parts, seg.Text)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Provider fetches the transcript of a video in a fixed language.
type Provider interface {
	Fetch(ctx context.Context, videoID string) (*Transcript, error)
}
