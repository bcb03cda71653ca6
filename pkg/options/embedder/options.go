// Package embedderopts provides options for the embedding service client.
package embedderopts

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// Options contains embedding service client configuration.
type Options struct {
	// BaseURL is the embedding service base URL.
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// Timeout for embedding requests.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries is the maximum number of retries for failed requests.
	MaxRetries int `json:"max-retries" mapstructure:"max-retries"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		BaseURL:    "http://localhost:8001",
		Timeout:    30 * time.Second,
		MaxRetries: 3,
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.BaseURL, "embedder.base-url", o.BaseURL, "Embedding service base URL")
	fs.DurationVar(&o.Timeout, "embedder.timeout", o.Timeout, "Embedding request timeout")
	fs.IntVar(&o.MaxRetries, "embedder.max-retries", o.MaxRetries, "Max retries for failed embedding requests")
}

// Validate validates the options.
func (o *Options) Validate() error {
	if o.BaseURL == "" {
		return fmt.Errorf("embedder.base-url is required")
	}
	if o.Timeout <= 0 {
		return fmt.Errorf("embedder.timeout must be positive")
	}
	return nil
}
