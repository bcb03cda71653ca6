// Package qdrant provides the Qdrant connection used by the vector store.
package qdrant

import (
	"context"
	"fmt"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"github.com/literag/literag/pkg/component/storage"
	qdrantopts "github.com/literag/literag/pkg/options/qdrant"
)

// Client wraps the Qdrant gRPC client behind the storage.Client interface.
type Client struct {
	client *qdrant.Client
	opts   *qdrantopts.Options
}

var _ storage.Client = (*Client)(nil)

// New creates a Qdrant client from the provided options.
func New(opts *qdrantopts.Options) (*Client, error) {
	return NewWithContext(context.Background(), opts)
}

// NewWithContext creates a Qdrant client and verifies connectivity.
// The context bounds the initial health check.
func NewWithContext(ctx context.Context, opts *qdrantopts.Options) (*Client, error) {
	if opts == nil {
		return nil, fmt.Errorf("qdrant options cannot be nil")
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid qdrant options: %w", err)
	}

	cfg := &qdrant.Config{
		Host:   opts.Host,
		Port:   opts.Port,
		UseTLS: opts.UseTLS,
	}
	if opts.APIKey != "" {
		cfg.APIKey = opts.APIKey
	}

	client, err := qdrant.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	if _, err := client.HealthCheck(pingCtx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach qdrant at %s:%d: %w", opts.Host, opts.Port, err)
	}

	return &Client{client: client, opts: opts}, nil
}

// Name returns the storage type identifier.
func (c *Client) Name() string {
	return "qdrant"
}

// Ping checks if the connection to Qdrant is alive.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.client.HealthCheck(ctx)
	return err
}

// Close closes the underlying gRPC connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// Health returns a HealthChecker for Qdrant.
func (c *Client) Health() storage.HealthChecker {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return c.Ping(ctx)
	}
}

// Client returns the underlying Qdrant client for collection and point
// operations.
func (c *Client) Client() *qdrant.Client {
	return c.client
}

// Options returns the options used to build this client.
func (c *Client) Options() *qdrantopts.Options {
	return c.opts
}
