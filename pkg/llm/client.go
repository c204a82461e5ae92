// Package llm provides the model-call capability consumed by the
// pipeline stages: a single-prompt completion with streaming aggregation.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/alantheprice/siteforge/pkg/config"
)

// Options are the per-call generation parameters.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// Client is the model-call capability. Implementations return the full
// aggregated response text; transport failures surface as errors and are
// converted to the ERROR: text shape at the stage boundary.
type Client interface {
	Invoke(ctx context.Context, prompt string, opts Options) (string, error)
}

// errorPrefix marks an error-shaped model response.
const errorPrefix = "ERROR:"

// IsErrorText reports whether a model response is error-shaped.
func IsErrorText(response string) bool {
	return strings.HasPrefix(response, errorPrefix)
}

// ErrorText converts a Go error into the error-shaped response text.
func ErrorText(err error) string {
	return fmt.Sprintf("%s %v", errorPrefix, err)
}

// NewFromConfig builds the configured model client.
func NewFromConfig(cfg *config.Config) (Client, error) {
	switch cfg.Provider {
	case "", "openai":
		return NewOpenAIClient(cfg.BaseURL, cfg.APIKey(), cfg.Model), nil
	case "ollama":
		return NewOllamaClient(cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}
