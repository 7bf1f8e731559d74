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


package enrichproxy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/enrichproxy/ai"
	"github.com/poiesic/enrichproxy/ai/gemini"
	"github.com/poiesic/enrichproxy/ai/openai"
	"github.com/poiesic/enrichproxy/backend"
	"github.com/poiesic/enrichproxy/enrich"
	"github.com/poiesic/enrichproxy/provision"
	"github.com/poiesic/enrichproxy/proxy"
	"github.com/poiesic/enrichproxy/server"
	"github.com/poiesic/enrichproxy/storage"
	"github.com/poiesic/enrichproxy/storage/badger"
	"github.com/poiesic/enrichproxy/storage/cluster"
)

// Service wires the enrichment proxy together: the cluster client, the
// configuration store, the analysis provider and the request processor.
type Service struct {
	settings   *Settings
	client     backend.Client
	repository storage.ConfigRepository
	provider   ai.Provider
	executor   *enrich.Executor
	processor  *proxy.Processor
	logger     *slog.Logger

	ownsRepository bool
	ownsProvider   bool
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	client     backend.Client
	repository storage.ConfigRepository
	provider   ai.Provider
	logger     *slog.Logger
}

// WithBackendClient uses client instead of an HTTP client built from the settings.
func WithBackendClient(client backend.Client) ServiceOption {
	return func(o *serviceOptions) {
		o.client = client
	}
}

// WithRepository uses repo instead of the store named in the settings.
// The caller keeps ownership of repo.
func WithRepository(repo storage.ConfigRepository) ServiceOption {
	return func(o *serviceOptions) {
		o.repository = repo
	}
}

// WithProvider uses provider instead of the analyzer named in the settings.
// The caller keeps ownership of provider.
func WithProvider(provider ai.Provider) ServiceOption {
	return func(o *serviceOptions) {
		o.provider = provider
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// NewService validates settings and builds every component they describe.
func NewService(ctx context.Context, settings *Settings, opts ...ServiceOption) (*Service, error) {
	if settings == nil {
		settings = DefaultSettings()
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	options := &serviceOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	s := &Service{
		settings: settings,
		logger:   options.logger.With("component", "service"),
	}

	var err error
	s.client = options.client
	if s.client == nil {
		s.client, err = NewBackendClient(settings, options.logger)
		if err != nil {
			return nil, err
		}
	}

	s.repository = options.repository
	if s.repository == nil {
		s.repository, err = OpenRepository(settings, s.client, options.logger)
		if err != nil {
			return nil, err
		}
		s.ownsRepository = true
	}

	s.provider = options.provider
	if s.provider == nil {
		s.provider, err = NewProvider(ctx, settings.AIConfig())
		if err != nil {
			s.Close()
			return nil, err
		}
		s.ownsProvider = true
	}

	s.executor, err = enrich.NewExecutor(s.provider.Analyzer(),
		enrich.WithPoolSize(settings.Enrichment.PoolSize),
		enrich.WithLogger(options.logger),
	)
	if err != nil {
		s.Close()
		return nil, err
	}

	processorOpts := []proxy.Option{
		proxy.WithDeadlines(settings.Enrichment.IndexDeadline, settings.Enrichment.BulkDeadline),
		proxy.WithLogger(options.logger),
	}
	if settings.Provisioning.Enabled {
		provisioner, err := provision.NewProvisioner(s.client,
			provision.WithTimeout(settings.Provisioning.Timeout),
			provision.WithLogger(options.logger),
		)
		if err != nil {
			s.Close()
			return nil, err
		}
		processorOpts = append(processorOpts, proxy.WithProvisioner(provisioner))
	}

	s.processor, err = proxy.NewProcessor(s.client, s.repository, s.executor, processorOpts...)
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// NewProvider creates the analysis provider selected by config.Backend.
func NewProvider(ctx context.Context, config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	switch config.Backend {
	case ai.BackendGemini:
		return gemini.NewProvider(ctx, config)
	default:
		return openai.NewProvider(config)
	}
}

// NewBackendClient creates the HTTP client of the configured cluster.
func NewBackendClient(settings *Settings, logger *slog.Logger) (backend.Client, error) {
	opts := []backend.Option{backend.WithLogger(logger)}
	if settings.Backend.Username != "" {
		opts = append(opts, backend.WithBasicAuth(settings.Backend.Username, settings.Backend.Password))
	}
	if settings.Backend.Timeout > 0 {
		opts = append(opts, backend.WithTimeout(settings.Backend.Timeout))
	}
	return backend.NewHTTPClient(settings.Backend.URL, opts...)
}

// OpenRepository opens the configured store. The cluster store reaches the
// cluster through client.
func OpenRepository(settings *Settings, client backend.Client, logger *slog.Logger) (storage.ConfigRepository, error) {
	switch settings.Store.Kind {
	case StoreCluster:
		return cluster.NewConfigRepository(client,
			cluster.WithIndex(settings.Store.Index),
			cluster.WithLogger(logger),
		)
	default:
		return badger.OpenConfigRepository(settings.Store.Path)
	}
}

// Settings returns the settings the service was built from.
func (s *Service) Settings() *Settings {
	return s.settings
}

// Processor returns the request processor.
func (s *Service) Processor() *proxy.Processor {
	return s.processor
}

// Repository returns the configuration store.
func (s *Service) Repository() storage.ConfigRepository {
	return s.repository
}

// Analyzer returns the analysis service.
func (s *Service) Analyzer() ai.Analyzer {
	return s.provider.Analyzer()
}

// Serve runs the HTTP edge on the configured listen address until ctx is
// canceled.
func (s *Service) Serve(ctx context.Context, opts ...server.Option) error {
	opts = append([]server.Option{server.WithLogger(s.logger)}, opts...)
	srv, err := server.New(s.processor, opts...)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, s.settings.Listen)
}

// Close releases the worker pool and the components the service created.
func (s *Service) Close() error {
	if s.executor != nil {
		s.executor.Release()
	}

	if s.ownsProvider && s.provider != nil {
		if err := s.provider.Close(); err != nil {
			s.logger.Error("error closing analysis provider", "err", err)
		}
	}

	if s.ownsRepository && s.repository != nil {
		if err := s.repository.Close(); err != nil {
			s.logger.Error("error closing configuration repository", "err", err)
			return err
		}
	}
	return nil
}
