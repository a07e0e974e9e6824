package tags

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxTags is used when a caller asks for zero or fewer tags.
const DefaultMaxTags = 10

// DefaultLanguageName names the transcript language in the prompt.
const DefaultLanguageName = "Malayalam"

var (
	// ErrMissingCredential is returned when no API key was supplied.
	ErrMissingCredential = errors.New("missing API key")

	// ErrEmptyTranscript is returned when there is no text to tag.
	ErrEmptyTranscript = errors.New("empty transcript")

	// ErrGeneration wraps any failure of the language model call.
	ErrGeneration = errors.New("tag generation failed")
)

// Completer sends a single prompt to a language model and returns its raw text.
// The API key is supplied per call because it belongs to the requester.
type Completer interface {
	Complete(ctx context.Context, apiKey, prompt string) (string, error)
}

// Generator turns transcript text into a short list of tags.
type Generator struct {
	backend      Completer
	languageName string
}

// NewGenerator returns a Generator that prompts backend for tags of a
// transcript written in languageName (DefaultLanguageName when empty).
func NewGenerator(backend Completer, languageName string) *Generator {
	if languageName == "" {
		languageName = DefaultLanguageName
	}
	return &Generator{backend: backend, languageName: languageName}
}

// Generate asks the backend for at most maxTags tags. The call is made once;
// failures are returned without retrying.
func (g *Generator) Generate(ctx context.Context, transcript, apiKey string, maxTags int) ([]string, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingCredential
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil, ErrEmptyTranscript
	}
	if maxTags <= 0 {
		maxTags = DefaultMaxTags
	}

	raw, err := g.backend.Complete(ctx, apiKey, BuildPrompt(transcript, g.languageName, maxTags))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	tags := ParseTags(raw, maxTags)
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: model returned no tags", ErrGeneration)
	}
	return tags, nil
}

// BuildPrompt renders the tagging prompt. The model is asked for a plain
// comma-separated list so that ParseTags can split it.
func BuildPrompt(transcript, languageName string, maxTags int) string {
	return fmt.Sprintf("Generate a maximum of %d relevant tags for this %s video transcript. "+
		"Provide only the tags, separated by commas. No other text. No numbers. Plain text, NOT JSON. No hashtags. "+
		"Transcript:\n%s\nTags:", maxTags, languageName, transcript)
}

// ParseTags splits a comma-separated model reply into tags. Entries are
// trimmed, empty and repeated (case-insensitive) entries are dropped and at
// most max tags are kept.
func ParseTags(raw string, max int) []string {
	raw = stripFences(raw)

	seen := make(map[string]struct{})
	out := make([]string, 0, max)
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}

// stripFences removes markdown code fences some models wrap output in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```text")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
