package cmd

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/alantheprice/siteforge/pkg/config"
	"github.com/alantheprice/siteforge/pkg/llm"
)

// loadStack loads configuration and builds the model client shared by the
// stage commands.
func loadStack() (*config.Config, llm.Client, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	client, err := llm.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create model client: %w", err)
	}
	return cfg, client, nil
}

// callOptions merges command flags with config defaults.
func callOptions(cfg *config.Config, maxTokens int, temperature float64) llm.Options {
	opts := llm.Options{MaxTokens: cfg.MaxTokens, Temperature: cfg.Temperature}
	if maxTokens > 0 {
		opts.MaxTokens = maxTokens
	}
	if temperature >= 0 {
		opts.Temperature = temperature
	}
	return opts
}

// newRunID generates the run identifier used to namespace output.
func newRunID() string {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("run_%s_%s", time.Now().Format("20060102_150405"), hex.EncodeToString(suffix))
}
