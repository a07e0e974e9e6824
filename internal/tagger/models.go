package tagger

import "yt-tagger/internal/transcript"

// Stage names a step of the extraction pipeline.
type Stage string

const (
	StageResolve    Stage = "resolve"
	StageTranscript Stage = "transcript"
	StageTags       Stage = "tags"
)

// ResolveRequest is the body of POST /v1/resolve.
// URL is a pointer so an absent field can be told apart from an empty one.
type ResolveRequest struct {
	URL *string `json:"url"`
}

// ResolveResponse is returned by POST /v1/resolve.
type ResolveResponse struct {
	VideoID string `json:"video_id"`
}

// TagsRequest is the body of POST /v1/tags.
type TagsRequest struct {
	Transcript string `json:"transcript"`
	MaxTags    int    `json:"max_tags"`
}

// TagsResponse is returned by POST /v1/tags.
type TagsResponse struct {
	Tags []string `json:"tags"`
}

// ExtractRequest drives the whole pipeline for one URL.
type ExtractRequest struct {
	URL            *string `json:"url"`
	MaxTags        int     `json:"max_tags"`
	TranscriptOnly bool    `json:"transcript_only"`

	// APIKey comes from the X-Gemini-Key header or the -key flag, never the body.
	APIKey string `json:"-"`
}

// ExtractResult is the outcome of a successful Extract.
type ExtractResult struct {
	VideoID    string          `json:"video_id"`
	Language   string          `json:"language"`
	Kind       transcript.Kind `json:"kind"`
	Transcript string          `json:"transcript"`
	Tags       []string        `json:"tags,omitempty"`
}

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
	Stage Stage  `json:"stage,omitempty"`
}
