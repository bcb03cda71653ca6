// Package storage defines the common interface for backend clients and a
// registry that manages their lifecycle and health.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// HealthChecker verifies connectivity to a backend.
type HealthChecker func() error

// Client is the base interface implemented by every backend client.
type Client interface {
	// Name returns the backend type identifier, e.g. "redis" or "qdrant".
	Name() string

	// Ping checks if the connection to the backend is alive.
	Ping(ctx context.Context) error

	// Close closes the connection and releases resources.
	Close() error

	// Health returns a HealthChecker for this client.
	Health() HealthChecker
}

// HealthStatus describes the result of a health check.
type HealthStatus struct {
	Healthy   bool          `json:"healthy"`
	Error     string        `json:"error,omitempty"`
	Latency   time.Duration `json:"latency"`
	CheckedAt time.Time     `json:"checked_at"`
}

// Manager is a registry for backend clients. It supports lookup,
// aggregate health checks and graceful shutdown of all clients.
type Manager struct {
	mu      sync.RWMutex
	clients map[string]Client
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		clients: make(map[string]Client),
	}
}

// Register adds a client under the given name.
// It returns an error if the name is already taken.
func (m *Manager) Register(name string, client Client) error {
	if name == "" {
		return fmt.Errorf("client name cannot be empty")
	}
	if client == nil {
		return fmt.Errorf("client cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.clients[name]; exists {
		return fmt.Errorf("client %q is already registered", name)
	}
	m.clients[name] = client
	return nil
}

// MustRegister is like Register but panics on error.
func (m *Manager) MustRegister(name string, client Client) {
	if err := m.Register(name, client); err != nil {
		panic(err)
	}
}

// Get returns the client registered under name.
func (m *Manager) Get(name string) (Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	client, ok := m.clients[name]
	if !ok {
		return nil, fmt.Errorf("client %q is not registered", name)
	}
	return client, nil
}

// List returns the registered client names in sorted order.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.clients))
	for name := range m.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HealthCheck pings a single client and reports its status.
func (m *Manager) HealthCheck(ctx context.Context, name string) HealthStatus {
	client, err := m.Get(name)
	if err != nil {
		return HealthStatus{
			Healthy:   false,
			Error:     err.Error(),
			CheckedAt: time.Now(),
		}
	}

	start := time.Now()
	pingErr := client.Ping(ctx)
	status := HealthStatus{
		Healthy:   pingErr == nil,
		Latency:   time.Since(start),
		CheckedAt: time.Now(),
	}
	if pingErr != nil {
		status.Error = pingErr.Error()
	}
	return status
}

// HealthCheckAll pings every registered client.
func (m *Manager) HealthCheckAll(ctx context.Context) map[string]HealthStatus {
	statuses := make(map[string]HealthStatus)
	for _, name := range m.List() {
		statuses[name] = m.HealthCheck(ctx, name)
	}
	return statuses
}

// AllHealthy reports whether every registered client passed its health check.
func (m *Manager) AllHealthy(ctx context.Context) bool {
	for _, status := range m.HealthCheckAll(ctx) {
		if !status.Healthy {
			return false
		}
	}
	return true
}

// CloseAll closes every registered client and removes it from the registry.
// It returns the first error encountered but attempts to close all clients.
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for name, client := range m.clients {
		if err := client.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close %q: %w", name, err)
		}
		delete(m.clients, name)
	}
	return firstErr
}
