// Package llmopts provides options for embedding provider configuration.
package llmopts

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// ProviderOptions defines configuration for an embedding provider.
type ProviderOptions struct {
	// Provider is the provider name (ollama, openai).
	Provider string `json:"provider" mapstructure:"provider"`

	// BaseURL is the provider API base URL.
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// APIKey authenticates against providers that require it (openai).
	APIKey string `json:"-" mapstructure:"api-key"`

	// Model is the embedding model name.
	Model string `json:"model" mapstructure:"model"`

	// Dimension is the expected embedding vector dimension.
	Dimension int `json:"dimension" mapstructure:"dimension"`

	// Timeout for provider requests.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries is the maximum number of retries for failed requests.
	MaxRetries int `json:"max-retries" mapstructure:"max-retries"`
}

// NewProviderOptions creates default provider options.
func NewProviderOptions() *ProviderOptions {
	return &ProviderOptions{
		Provider:   "ollama",
		BaseURL:    "http://localhost:11434",
		Model:      "all-minilm",
		Dimension:  384,
		Timeout:    120 * time.Second,
		MaxRetries: 3,
	}
}

// AddFlags adds flags to the flagset.
func (o *ProviderOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Provider, "provider.name", o.Provider, "Embedding provider (ollama, openai)")
	fs.StringVar(&o.BaseURL, "provider.base-url", o.BaseURL, "Provider API base URL")
	fs.StringVar(&o.APIKey, "provider.api-key", o.APIKey, "Provider API key (for openai)")
	fs.StringVar(&o.Model, "provider.model", o.Model, "Embedding model name")
	fs.IntVar(&o.Dimension, "provider.dimension", o.Dimension, "Embedding vector dimension")
	fs.DurationVar(&o.Timeout, "provider.timeout", o.Timeout, "Provider request timeout")
	fs.IntVar(&o.MaxRetries, "provider.max-retries", o.MaxRetries, "Max retries for failed provider requests")
}

// Validate validates the options.
func (o *ProviderOptions) Validate() error {
	if o.Provider == "" {
		return fmt.Errorf("provider.name is required")
	}
	if o.BaseURL == "" {
		return fmt.Errorf("provider.base-url is required")
	}
	if o.Model == "" {
		return fmt.Errorf("provider.model is required")
	}
	if o.Dimension <= 0 {
		return fmt.Errorf("provider.dimension must be positive")
	}
	if o.Provider == "openai" && o.APIKey == "" {
		return fmt.Errorf("provider.api-key is required for openai provider")
	}
	if o.Timeout <= 0 {
		return fmt.Errorf("provider.timeout must be positive")
	}
	return nil
}

// ToConfigMap converts the options to a config map for the provider factory.
func (o *ProviderOptions) ToConfigMap() map[string]any {
	return map[string]any{
		"base_url":    o.BaseURL,
		"api_key":     o.APIKey,
		"model":       o.Model,
		"dimension":   o.Dimension,
		"timeout":     o.Timeout,
		"max_retries": o.MaxRetries,
	}
}
