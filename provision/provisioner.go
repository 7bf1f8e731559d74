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


package provision

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/poiesic/enrichproxy/backend"
	"github.com/poiesic/enrichproxy/core"
)

const (
	// DefaultTimeout bounds one Provision call.
	DefaultTimeout = 20 * time.Second

	defaultAttempts  = 3
	defaultBaseDelay = 200 * time.Millisecond
)

// Report lists the outcome of a Provision call per index.
type Report struct {
	Provisioned []string
	Failed      map[string]error
}

// Provisioner installs mappings for newly configured fields. It works on a
// best-effort basis: failures are logged and reported, never returned.
type Provisioner struct {
	client    backend.Client
	timeout   time.Duration
	attempts  int
	baseDelay time.Duration
	logger    *slog.Logger
}

// Option configures a Provisioner.
type Option func(*Provisioner) error

// WithTimeout bounds every Provision call.
// Default is DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Provisioner) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", timeout)
		}
		p.timeout = timeout
		return nil
	}
}

// WithRetry sets how often a failed cluster call is attempted.
func WithRetry(attempts int, baseDelay time.Duration) Option {
	return func(p *Provisioner) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.attempts = attempts
		p.baseDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provisioner) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewProvisioner creates a provisioner calling the cluster through client.
func NewProvisioner(client backend.Client, opts ...Option) (*Provisioner, error) {
	if client == nil {
		return nil, fmt.Errorf("backend client required")
	}
	p := &Provisioner{
		client:    client,
		timeout:   DefaultTimeout,
		attempts:  defaultAttempts,
		baseDelay: defaultBaseDelay,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.logger = p.logger.With("component", "provisioner")
	return p, nil
}

// Provision installs the mappings of configs, one index at a time, within
// the provisioner timeout. Missing indexes are created with the mapping;
// existing ones get the mapping added.
func (p *Provisioner) Provision(ctx context.Context, configs []core.FieldConfig) Report {
	report := Report{Failed: make(map[string]error)}
	if len(configs) == 0 {
		return report
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	byIndex := make(map[string][]core.FieldConfig)
	for _, fc := range configs {
		byIndex[fc.IndexName] = append(byIndex[fc.IndexName], fc)
	}
	indexes := make([]string, 0, len(byIndex))
	for index := range byIndex {
		indexes = append(indexes, index)
	}
	slices.Sort(indexes)

	for _, index := range indexes {
		if err := p.provisionIndex(ctx, index, byIndex[index]); err != nil {
			p.logger.Warn("mapping provisioning failed", "index", index, "err", err)
			report.Failed[index] = err
			continue
		}
		p.logger.Info("mapping provisioned", "index", index, "fields", len(byIndex[index]))
		report.Provisioned = append(report.Provisioned, index)
	}
	return report
}

func (p *Provisioner) provisionIndex(ctx context.Context, index string, configs []core.FieldConfig) error {
	properties := Mapping(configs)

	var absent bool
	err := RetryWithBackoff(ctx, func() error {
		var err error
		absent, err = p.client.IndexAbsent(ctx, index)
		return err
	}, p.attempts, p.baseDelay)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}

	path := "/" + url.PathEscape(index)
	var body any = map[string]any{"properties": properties}
	if absent {
		body = map[string]any{"mappings": body}
	} else {
		path += "/_mapping"
	}
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	return RetryWithBackoff(ctx, func() error {
		resp, err := p.client.Forward(ctx, &backend.Request{
			Method: http.MethodPut,
			Path:   path,
			Header: http.Header{"Content-Type": {"application/json"}},
			Body:   data,
		})
		if err != nil {
			return err
		}
		if resp.Successful() {
			return nil
		}
		httpErr := backend.NewHTTPError("put mapping", resp)
		if resp.StatusCode/100 == 4 && resp.StatusCode != http.StatusTooManyRequests {
			return permanent(httpErr)
		}
		return httpErr
	}, p.attempts, p.baseDelay)
}
