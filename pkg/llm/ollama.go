package llm

import (
	"context"
	"fmt"
	"strings"

	ollama "github.com/jmorganca/ollama/api"
)

// OllamaClient runs completions against a local Ollama instance.
type OllamaClient struct {
	model string
}

// NewOllamaClient creates a client for a locally served model. The Ollama
// host is taken from the environment (OLLAMA_HOST).
func NewOllamaClient(model string) *OllamaClient {
	return &OllamaClient{model: model}
}

// Invoke performs one generate call, aggregating the streamed chunks.
func (c *OllamaClient) Invoke(ctx context.Context, prompt string, opts Options) (string, error) {
	client, err := ollama.ClientFromEnvironment()
	if err != nil {
		return "", fmt.Errorf("could not create ollama client: %w", err)
	}

	req := &ollama.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Options: map[string]any{
			"temperature": opts.Temperature,
		},
	}
	if opts.MaxTokens > 0 {
		req.Options["num_predict"] = opts.MaxTokens
	}

	var response strings.Builder
	err = client.Generate(ctx, req, func(resp ollama.GenerateResponse) error {
		response.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate failed: %w", err)
	}

	return response.String(), nil
}
