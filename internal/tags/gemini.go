package tags

import (
	"context"
	"net/http"

	"google.golang.org/genai"
)

// DefaultGeminiModel is the model used when none is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiCompleter calls the Gemini API through the Google GenAI SDK.
// A client is built per call since every request may carry a different key.
type GeminiCompleter struct {
	Model      string
	HTTPClient *http.Client
	// BaseURL overrides the Gemini API endpoint; used by tests.
	BaseURL string
}

// Complete implements Completer.
func (c *GeminiCompleter) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.HTTPClient,
	}
	if c.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", err
	}

	model := c.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
