// Package qdrantopts provides options for Qdrant client configuration.
package qdrantopts

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// Options contains Qdrant client configuration.
type Options struct {
	// Host is the Qdrant server host.
	Host string `json:"host" mapstructure:"host"`

	// Port is the Qdrant gRPC port.
	Port int `json:"port" mapstructure:"port"`

	// APIKey authenticates requests against a secured Qdrant deployment.
	APIKey string `json:"-" mapstructure:"api-key"`

	// UseTLS enables transport security.
	UseTLS bool `json:"use-tls" mapstructure:"use-tls"`

	// Timeout for connection and operations.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		Host:    "localhost",
		Port:    6334,
		Timeout: 30 * time.Second,
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Host, "qdrant.host", o.Host, "Qdrant server host")
	fs.IntVar(&o.Port, "qdrant.port", o.Port, "Qdrant gRPC port")
	fs.StringVar(&o.APIKey, "qdrant.api-key", o.APIKey, "Qdrant API key")
	fs.BoolVar(&o.UseTLS, "qdrant.use-tls", o.UseTLS, "Use TLS for Qdrant connection")
	fs.DurationVar(&o.Timeout, "qdrant.timeout", o.Timeout, "Connection and operation timeout")
}

// Validate validates the options.
func (o *Options) Validate() error {
	if o.Host == "" {
		return fmt.Errorf("qdrant.host is required")
	}
	if o.Port <= 0 || o.Port > 65535 {
		return fmt.Errorf("qdrant.port must be a valid port number")
	}
	if o.Timeout <= 0 {
		return fmt.Errorf("qdrant.timeout must be positive")
	}
	return nil
}

// String returns a string representation safe for logging.
func (o *Options) String() string {
	return fmt.Sprintf("Qdrant{host=%s, port=%d, tls=%t}", o.Host, o.Port, o.UseTLS)
}
