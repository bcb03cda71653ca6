// Package embedding provides the embedding service application.
package embedding

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	llmopts "github.com/literag/literag/pkg/options/llm"
	logopts "github.com/literag/literag/pkg/options/logger"
	redisopts "github.com/literag/literag/pkg/options/redis"
	serveropts "github.com/literag/literag/pkg/options/server"
)

// Options contains all embedding service options.
type Options struct {
	// Server contains HTTP server configuration.
	Server *serveropts.Options `json:"server" mapstructure:"server"`

	// Log contains logger configuration.
	Log *logopts.Options `json:"log" mapstructure:"log"`

	// Provider contains embedding provider configuration.
	Provider *llmopts.ProviderOptions `json:"provider" mapstructure:"provider"`

	// Cache contains embedding cache configuration.
	Cache *CacheOptions `json:"cache" mapstructure:"cache"`

	// MaxBatchSize caps the number of texts per request. Zero means no cap.
	MaxBatchSize int `json:"max-batch-size" mapstructure:"max-batch-size"`
}

// CacheOptions contains embedding cache configuration.
type CacheOptions struct {
	// Enabled turns the embedding cache on or off.
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// TTL is the cache entry expiry.
	TTL time.Duration `json:"ttl" mapstructure:"ttl"`

	// KeyPrefix is prepended to every cache key.
	KeyPrefix string `json:"key-prefix" mapstructure:"key-prefix"`

	// Redis contains the Redis connection configuration.
	Redis *redisopts.Options `json:"redis" mapstructure:"redis"`
}

// NewCacheOptions creates cache options with defaults. Embeddings are
// deterministic for a given model, so the default TTL is long.
func NewCacheOptions() *CacheOptions {
	return &CacheOptions{
		Enabled:   false,
		TTL:       24 * time.Hour,
		KeyPrefix: "emb:",
		Redis:     redisopts.NewOptions(),
	}
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	serverOpts := serveropts.NewOptions()
	serverOpts.Addr = ":8001"

	return &Options{
		Server:       serverOpts,
		Log:          logopts.NewOptions(),
		Provider:     llmopts.NewProviderOptions(),
		Cache:        NewCacheOptions(),
		MaxBatchSize: 256,
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.Server.AddFlags(fs)
	o.Log.AddFlags(fs)
	o.Provider.AddFlags(fs)
	o.addCacheFlags(fs)
	fs.IntVar(&o.MaxBatchSize, "max-batch-size", o.MaxBatchSize, "Maximum texts per embedding request (0 for no cap)")
}

func (o *Options) addCacheFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Cache.Enabled, "cache.enabled", o.Cache.Enabled, "Enable embedding cache")
	fs.DurationVar(&o.Cache.TTL, "cache.ttl", o.Cache.TTL, "Cache TTL duration")
	fs.StringVar(&o.Cache.KeyPrefix, "cache.key-prefix", o.Cache.KeyPrefix, "Cache key prefix")
	o.Cache.Redis.AddFlags(fs)
}

// Validate validates the options.
func (o *Options) Validate() error {
	if err := o.Server.Validate(); err != nil {
		return err
	}
	if err := o.Log.Validate(); err != nil {
		return err
	}
	if err := o.Provider.Validate(); err != nil {
		return err
	}
	if o.MaxBatchSize < 0 {
		return fmt.Errorf("max-batch-size cannot be negative")
	}
	if o.Cache.Enabled {
		if err := o.Cache.Redis.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Complete completes the options.
func (o *Options) Complete() error {
	return nil
}
