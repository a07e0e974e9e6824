package tagger

import (
	"errors"
	"fmt"
	"net/http"

	"yt-tagger/internal/resolver"
	"yt-tagger/internal/tags"
	"yt-tagger/internal/transcript"
)

// StageError records which pipeline stage failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// StageOf returns the stage that produced err, or "" if err carries none.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// Message returns the text shown to end users for err. languageName fills in
// the missing transcript message, e.g. "No Malayalam transcript found.".
func Message(err error, languageName string) string {
	switch {
	case errors.Is(err, resolver.ErrUnresolvable):
		return "Invalid YouTube URL. Please enter a valid URL."
	case errors.Is(err, transcript.ErrNoTranscript):
		return fmt.Sprintf("No %s transcript found.", languageName)
	case errors.Is(err, transcript.ErrVideoUnavailable):
		return "Could not fetch the video from YouTube."
	case errors.Is(err, tags.ErrMissingCredential):
		return "Missing Gemini API key. Please enter your Gemini API key."
	case errors.Is(err, tags.ErrEmptyTranscript):
		return "Transcript is empty. Nothing to tag."
	case errors.Is(err, tags.ErrGeneration):
		return "Error generating tags."
	case StageOf(err) == StageTranscript:
		return "Could not fetch the transcript from YouTube."
	default:
		return "Internal error."
	}
}

// StatusCode maps err to the HTTP status returned by the API.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, resolver.ErrUnresolvable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, transcript.ErrNoTranscript):
		return http.StatusNotFound
	case errors.Is(err, transcript.ErrVideoUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, tags.ErrMissingCredential):
		return http.StatusUnauthorized
	case errors.Is(err, tags.ErrEmptyTranscript):
		return http.StatusUnprocessableEntity
	case errors.Is(err, tags.ErrGeneration):
		return http.StatusBadGateway
	case StageOf(err) == StageTranscript:
		// caption download or decode failures
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
