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
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/poiesic/enrichproxy/ai"
	"github.com/poiesic/enrichproxy/enrich"
	"github.com/poiesic/enrichproxy/provision"
	"github.com/poiesic/enrichproxy/storage/cluster"
	"gopkg.in/yaml.v3"
)

// Configuration store kinds.
const (
	StoreBadger  = "badger"
	StoreCluster = "cluster"
)

// Settings configures a Service. The zero value is not usable; start from
// DefaultSettings or LoadSettings.
//
// Example (YAML):
//
//	listen: ":9200"
//	backend:
//	  url: https://search.internal:9200
//	  username: proxy
//	  password: secret
//	analyzer:
//	  kind: openai
//	  host: http://localhost:11434/v1
//	  model: qwen2.5:3b
//	  requests_per_second: 20
//	  burst: 5
//	enrichment:
//	  pool_size: 50
//	  index_deadline: 10s
//	  bulk_deadline: 300s
//	store:
//	  kind: badger
//	  path: /var/lib/enrichproxy
//	provisioning:
//	  enabled: true
//	  timeout: 20s
type Settings struct {
	Listen       string               `yaml:"listen"`
	Backend      BackendSettings      `yaml:"backend"`
	Analyzer     AnalyzerSettings     `yaml:"analyzer"`
	Enrichment   EnrichmentSettings   `yaml:"enrichment"`
	Store        StoreSettings        `yaml:"store"`
	Provisioning ProvisioningSettings `yaml:"provisioning"`
}

// BackendSettings locates the search cluster.
type BackendSettings struct {
	URL      string        `yaml:"url"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
}

// AnalyzerSettings selects and configures the text-analysis service.
type AnalyzerSettings struct {
	Kind              string  `yaml:"kind"`
	Host              string  `yaml:"host"`
	Model             string  `yaml:"model"`
	APIKey            string  `yaml:"api_key"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// EnrichmentSettings sizes the worker pool and the analysis deadlines.
type EnrichmentSettings struct {
	PoolSize      int           `yaml:"pool_size"`
	IndexDeadline time.Duration `yaml:"index_deadline"`
	BulkDeadline  time.Duration `yaml:"bulk_deadline"`
}

// StoreSettings selects where the field configuration is kept.
type StoreSettings struct {
	Kind  string `yaml:"kind"`
	Path  string `yaml:"path"`
	Index string `yaml:"index"`
}

// ProvisioningSettings controls mapping provisioning of new fields.
type ProvisioningSettings struct {
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultSettings returns settings for a local cluster and a local
// OpenAI-compatible model server.
func DefaultSettings() *Settings {
	aiDefaults := ai.DefaultConfig()
	return &Settings{
		Listen: ":8080",
		Backend: BackendSettings{
			URL:     "http://localhost:9200",
			Timeout: 60 * time.Second,
		},
		Analyzer: AnalyzerSettings{
			Kind:              aiDefaults.Backend,
			Host:              aiDefaults.Host,
			Model:             aiDefaults.Model,
			APIKey:            aiDefaults.APIKey,
			RequestsPerSecond: aiDefaults.RequestsPerSecond,
			Burst:             aiDefaults.Burst,
		},
		Enrichment: EnrichmentSettings{
			PoolSize:      enrich.DefaultPoolSize,
			IndexDeadline: enrich.IndexDeadline,
			BulkDeadline:  enrich.BulkDeadline,
		},
		Store: StoreSettings{
			Kind:  StoreBadger,
			Path:  "enrichproxy-data",
			Index: cluster.DefaultIndex,
		},
		Provisioning: ProvisioningSettings{
			Enabled: true,
			Timeout: provision.DefaultTimeout,
		},
	}
}

// LoadSettings reads a YAML settings file over the defaults.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return settings, nil
}

// AIConfig returns the analyzer settings as an ai.Config.
func (s *Settings) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithBackend(s.Analyzer.Kind),
		ai.WithHost(s.Analyzer.Host),
		ai.WithModel(s.Analyzer.Model),
		ai.WithAPIKey(s.Analyzer.APIKey),
		ai.WithRateLimit(s.Analyzer.RequestsPerSecond, s.Analyzer.Burst),
	)
}

// Validate reports every invalid setting.
func (s *Settings) Validate() error {
	var errs []error
	if s.Listen == "" {
		errs = append(errs, errors.New("listen address is required"))
	}
	if s.Backend.URL == "" {
		errs = append(errs, errors.New("backend url is required"))
	}
	if s.Backend.Timeout < 0 {
		errs = append(errs, fmt.Errorf("backend timeout must not be negative, got %s", s.Backend.Timeout))
	}
	if err := s.AIConfig().Validate(); err != nil {
		errs = append(errs, err)
	}
	if s.Enrichment.PoolSize < 1 {
		errs = append(errs, fmt.Errorf("enrichment pool_size must be positive, got %d", s.Enrichment.PoolSize))
	}
	if s.Enrichment.IndexDeadline <= 0 || s.Enrichment.BulkDeadline <= 0 {
		errs = append(errs, errors.New("enrichment deadlines must be positive"))
	}
	switch s.Store.Kind {
	case StoreBadger:
		if s.Store.Path == "" {
			errs = append(errs, errors.New("store path is required for the badger store"))
		}
	case StoreCluster:
	default:
		errs = append(errs, fmt.Errorf("unknown store kind %q", s.Store.Kind))
	}
	if s.Provisioning.Enabled && s.Provisioning.Timeout <= 0 {
		errs = append(errs, errors.New("provisioning timeout must be positive"))
	}
	return errors.Join(errs...)
}
