// Package config holds the pipeline configuration. The generated-output
// root is an explicit value threaded into the generation stage and the
// persistence layer rather than a hidden constant.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// DefaultConfigPath is where Load looks when no path is given.
const DefaultConfigPath = ".siteforge/config.json"

// Config is the pipeline configuration.
type Config struct {
	// GeneratedRoot is the base directory for run output
	// (artifacts land under <GeneratedRoot>/<run_id>/...).
	GeneratedRoot string `json:"generated_root"`

	// Provider selects the model client: "openai" or "ollama".
	Provider string `json:"provider"`

	Model     string `json:"model"`
	BaseURL   string `json:"base_url"`
	APIKeyEnv string `json:"api_key_env"`

	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`

	PreviewPort int `json:"preview_port"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		GeneratedRoot: "generated",
		Provider:      "openai",
		Model:         "gpt-4o-mini",
		BaseURL:       "https://api.openai.com/v1",
		APIKeyEnv:     "OPENAI_API_KEY",
		MaxTokens:     8192,
		Temperature:   0.4,
		PreviewPort:   54321,
	}
}

// Load reads the config file at path (DefaultConfigPath when empty),
// falling back to defaults when the file does not exist, then applies
// environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := DefaultConfig()
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("could not parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("could not read config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SITEFORGE_GENERATED_ROOT"); v != "" {
		c.GeneratedRoot = v
	}
	if v := os.Getenv("SITEFORGE_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("SITEFORGE_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("SITEFORGE_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("SITEFORGE_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxTokens = n
		}
	}
	if v := os.Getenv("SITEFORGE_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Temperature = f
		}
	}
	if v := os.Getenv("SITEFORGE_PREVIEW_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.PreviewPort = n
		}
	}
}

// APIKey resolves the configured API key from the environment.
func (c *Config) APIKey() string {
	if c.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.APIKeyEnv)
}
