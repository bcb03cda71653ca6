package redis

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestOptionsJSONMarshal_PasswordRedacted(t *testing.T) {
	opts := &Options{
		Host:     "localhost",
		Port:     6379,
		Password: "supersecret",
		Database: 0,
	}

	data, err := json.Marshal(opts)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	jsonStr := string(data)

	if strings.Contains(jsonStr, "supersecret") {
		t.Error("password should be redacted in JSON output")
	}

	if !strings.Contains(jsonStr, "[REDACTED]") {
		t.Error("JSON output should contain [REDACTED] placeholder")
	}
}

func TestOptionsJSONMarshal_EmptyPassword(t *testing.T) {
	opts := &Options{
		Host:     "localhost",
		Port:     6379,
		Password: "",
		Database: 0,
	}

	data, err := json.Marshal(opts)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	jsonStr := string(data)

	if strings.Contains(jsonStr, "[REDACTED]") {
		t.Error("empty password should not be replaced with [REDACTED]")
	}

	if !strings.Contains(jsonStr, `"password":""`) {
		t.Error("empty password should remain empty in JSON output")
	}
}

func TestOptionsString_PasswordRedacted(t *testing.T) {
	opts := &Options{
		Host:     "localhost",
		Port:     6379,
		Password: "supersecret",
	}

	s := opts.String()
	if strings.Contains(s, "supersecret") {
		t.Error("password should be redacted in String output")
	}
}

func TestNewOptionsDefaults(t *testing.T) {
	opts := NewOptions()
	if opts.Port != 6379 {
		t.Errorf("expected default port 6379, got %d", opts.Port)
	}
	if opts.PoolSize != 10 {
		t.Errorf("expected default pool size 10, got %d", opts.PoolSize)
	}
}
