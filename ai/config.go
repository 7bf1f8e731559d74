// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
)

// Supported analysis backends.
const (
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

// Config holds configuration for analysis service providers.
type Config struct {
	// Backend selects the provider implementation: "openai" or "gemini".
	Backend string

	// Host is the base URL of the service API.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible server.
	// Empty selects the public endpoint for the gemini backend.
	Host string

	// Model is the model identifier used for analysis.
	// Example: "qwen2.5:3b", "gpt-4o-mini", "gemini-2.5-flash"
	Model string

	// APIKey authenticates against the service. Local OpenAI-compatible
	// servers accept any value.
	APIKey string

	// RequestsPerSecond caps calls to the service across all workers.
	// Zero disables limiting.
	RequestsPerSecond float64

	// Burst is the number of calls allowed above the steady rate.
	Burst int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBackend selects the provider implementation.
func WithBackend(backend string) ConfigOption {
	return func(c *Config) {
		c.Backend = backend
	}
}

// WithHost sets the service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithAPIKey sets the service credentials.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithRateLimit caps calls per second, allowing burst calls above the rate.
func WithRateLimit(rps float64, burst int) ConfigOption {
	return func(c *Config) {
		c.RequestsPerSecond = rps
		c.Burst = burst
	}
}

// DefaultConfig returns a Config with sensible defaults for a local
// OpenAI-compatible service.
func DefaultConfig() *Config {
	return &Config{
		Backend:           BackendOpenAI,
		Host:              "http://localhost:11434/v1",
		Model:             "qwen2.5:3b",
		APIKey:            "none",
		RequestsPerSecond: 20,
		Burst:             5,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithBackend(BackendGemini),
//	    WithModel("gemini-2.5-flash"),
//	    WithAPIKey(os.Getenv("GEMINI_API_KEY")),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// OpenAI-compatible hosts get the /v1 suffix most servers (Ollama, LocalAI,
// vLLM) require.
func (c *Config) Normalize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == BackendOpenAI && c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/") + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Backend {
	case BackendOpenAI:
		if c.Host == "" {
			return errors.New("ai config: Host is required for the openai backend")
		}
	case BackendGemini:
		if c.APIKey == "" {
			return errors.New("ai config: APIKey is required for the gemini backend")
		}
	default:
		return errors.New("ai config: Backend must be one of openai, gemini")
	}
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.RequestsPerSecond < 0 {
		return errors.New("ai config: RequestsPerSecond cannot be negative")
	}
	if c.Burst < 0 {
		return errors.New("ai config: Burst cannot be negative")
	}
	return nil
}
