package tags

import (
	"fmt"
	"net/http"
	"strings"
)

// Backend names accepted by NewCompleter.
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
)

// BackendOptions configures the Completer returned by NewCompleter.
type BackendOptions struct {
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// NewCompleter returns the Completer registered under name.
func NewCompleter(name string, opts BackendOptions) (Completer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendGemini:
		return &GeminiCompleter{Model: opts.Model, BaseURL: opts.BaseURL, HTTPClient: opts.HTTPClient}, nil
	case BackendOpenAI:
		return &OpenAICompleter{Model: opts.Model, BaseURL: opts.BaseURL, HTTPClient: opts.HTTPClient}, nil
	default:
		return nil, fmt.Errorf("unknown tag backend %q", name)
	}
}
