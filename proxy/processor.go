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


package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/enrichproxy/backend"
	"github.com/poiesic/enrichproxy/batch"
	"github.com/poiesic/enrichproxy/classify"
	"github.com/poiesic/enrichproxy/core"
	"github.com/poiesic/enrichproxy/enrich"
	"github.com/poiesic/enrichproxy/extract"
	"github.com/poiesic/enrichproxy/fieldconfig"
	"github.com/poiesic/enrichproxy/merge"
	"github.com/poiesic/enrichproxy/provision"
	"github.com/poiesic/enrichproxy/storage"
)

// Processor enriches write requests on their way to the search cluster.
// It is safe for concurrent use; all per-request state is local.
type Processor struct {
	client        backend.Client
	repository    storage.ConfigRepository
	executor      *enrich.Executor
	provisioner   *provision.Provisioner
	indexDeadline time.Duration
	bulkDeadline  time.Duration
	now           func() time.Time
	logger        *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor) error

// WithProvisioner enables mapping provisioning for newly configured fields.
// Default is no provisioning.
func WithProvisioner(provisioner *provision.Provisioner) Option {
	return func(p *Processor) error {
		p.provisioner = provisioner
		return nil
	}
}

// WithDeadlines sets the collective analysis deadlines of single-document and
// bulk requests. Defaults are enrich.IndexDeadline and enrich.BulkDeadline.
func WithDeadlines(index, bulk time.Duration) Option {
	return func(p *Processor) error {
		if index > 0 {
			p.indexDeadline = index
		}
		if bulk > 0 {
			p.bulkDeadline = bulk
		}
		return nil
	}
}

// WithClock sets the source of processing timestamps.
// Default is time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) error {
		if now != nil {
			p.now = now
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewProcessor creates a processor forwarding to client, reading field
// configuration from repository and running analyses on executor.
// The executor may be shared with other processors.
func NewProcessor(client backend.Client, repository storage.ConfigRepository, executor *enrich.Executor, opts ...Option) (*Processor, error) {
	if client == nil {
		return nil, ErrBackendRequired
	}
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if executor == nil {
		return nil, ErrExecutorRequired
	}

	p := &Processor{
		client:        client,
		repository:    repository,
		executor:      executor,
		indexDeadline: enrich.IndexDeadline,
		bulkDeadline:  enrich.BulkDeadline,
		now:           time.Now,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.logger = p.logger.With("component", "processor")
	return p, nil
}

// Handle processes req and maps failures to error responses: invalid input
// to 400 with its message, everything else to 500.
func (p *Processor) Handle(ctx context.Context, req *backend.Request) *backend.Response {
	resp, err := p.Process(ctx, req)
	if err == nil {
		return resp
	}

	var invalid *InvalidInputError
	if errors.As(err, &invalid) {
		return textResponse(http.StatusBadRequest, invalid.Message)
	}
	return textResponse(http.StatusInternalServerError, InternalMessage)
}

// Process dispatches req by category. Requests without matching
// configuration are forwarded untouched. Errors wrap ErrInvalidInput or
// ErrInternal.
func (p *Processor) Process(ctx context.Context, req *backend.Request) (*backend.Response, error) {
	category := classify.Classify(req.Method, req.Path)
	logger := p.logger.With(
		"request_id", uuid.NewString(),
		"method", req.Method,
		"path", req.Path,
		"category", category,
	)

	start := time.Now()
	var (
		resp *backend.Response
		err  error
	)
	switch category {
	case classify.ConfigRequest, classify.ConfigUpdateRequest:
		resp, err = p.processConfig(ctx, req, category, logger)
	case classify.IndexRequest:
		resp, err = p.processIndex(ctx, req, logger)
	case classify.BulkRequest:
		resp, err = p.processBulk(ctx, req, logger)
	default:
		resp, err = p.forward(ctx, req)
	}

	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			logger.Info("request rejected", "err", err)
		} else {
			logger.Error("request failed", "err", err, "elapsed", time.Since(start))
		}
		return nil, err
	}
	logger.Debug("request processed", "status", resp.StatusCode, "elapsed", time.Since(start))
	return resp, nil
}

func (p *Processor) processIndex(ctx context.Context, req *backend.Request, logger *slog.Logger) (*backend.Response, error) {
	if len(req.Body) == 0 {
		return p.forward(ctx, req)
	}
	configs, err := p.configs(ctx)
	if err != nil {
		return nil, err
	}
	index := classify.TargetIndex(req.Path)
	if len(configs.ForIndex(index)) == 0 {
		return p.forward(ctx, req)
	}

	doc, err := extract.ParseDocument(req.Body)
	if err != nil {
		return nil, internal("decode document", err)
	}
	items := extract.FromDocument(doc, index, 0, configs)
	if len(items) == 0 {
		logger.Debug("no configured field in document", "index", index)
		return p.forward(ctx, req)
	}

	outcomes, err := p.executor.ExecuteSingular(ctx, items, p.indexDeadline)
	if err != nil {
		return nil, internal("analyze document", err)
	}
	if err := merge.Single(doc, outcomes, p.now()); err != nil {
		return nil, internal("merge document", err)
	}

	logger.Info("document enriched", "index", index, "items", len(items), "failed", countFailed(outcomes))
	return p.forward(ctx, withBody(req, []byte(doc.String())))
}

func (p *Processor) processBulk(ctx context.Context, req *backend.Request, logger *slog.Logger) (*backend.Response, error) {
	if len(req.Body) == 0 {
		return p.forward(ctx, req)
	}
	configs, err := p.configs(ctx)
	if err != nil {
		return nil, err
	}
	if configs.IsEmpty() {
		return p.forward(ctx, req)
	}

	payload := extract.ParseBulk(string(req.Body))
	if len(payload.Sources) == 0 {
		return p.forward(ctx, req)
	}
	items, err := payload.Items(configs)
	if err != nil {
		return nil, internal("decode bulk source", err)
	}
	if len(items) == 0 {
		logger.Debug("no configured field in bulk payload", "sources", len(payload.Sources))
		return p.forward(ctx, req)
	}

	groups := batch.Schedule(items)
	responses, err := p.executor.ExecuteBatches(ctx, groups, p.bulkDeadline)
	if err != nil {
		return nil, internal("analyze bulk", err)
	}
	if err := merge.Bulk(payload, responses, p.now()); err != nil {
		return nil, internal("merge bulk", err)
	}

	logger.Info("bulk enriched", "lines", len(payload.Lines), "items", len(items), "batches", len(groups))
	return p.forward(ctx, withBody(req, []byte(payload.Body())))
}

// ack is the body returned for an accepted configuration.
type ack struct {
	Acknowledged   bool   `json:"acknowledged"`
	Configurations int    `json:"configurations"`
	Fingerprint    string `json:"fingerprint"`
}

func (p *Processor) processConfig(ctx context.Context, req *backend.Request, category classify.Category, logger *slog.Logger) (*backend.Response, error) {
	if !classify.IsMutation(req.Method) {
		switch req.Method {
		case http.MethodGet:
			return p.showConfig(ctx)
		case http.MethodDelete:
			if err := p.repository.Delete(ctx); err != nil {
				return nil, internal("delete configuration", err)
			}
			logger.Info("configuration cleared")
			return jsonResponse(http.StatusOK, map[string]bool{"acknowledged": true})
		default:
			return textResponse(http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed)), nil
		}
	}

	set, err := fieldconfig.Decode(req.Body)
	if err != nil {
		if msg := fieldconfig.CustomerMessage(err); msg != "" {
			return nil, invalidInput(msg, err)
		}
		return nil, internal("decode configuration", err)
	}
	stored, err := p.configs(ctx)
	if err != nil {
		return nil, err
	}

	if added := set.Missing(stored); len(added) > 0 && p.provisioner != nil {
		report := p.provisioner.Provision(ctx, added)
		logger.Info("mappings provisioned", "indexes", report.Provisioned, "failed", len(report.Failed))
	}

	if category == classify.ConfigUpdateRequest && !stored.IsEmpty() {
		set = stored.Merge(set)
	}
	if err := p.repository.Save(ctx, set); err != nil {
		return nil, internal("save configuration", err)
	}

	logger.Info("configuration saved", "configurations", set.Len(), "fingerprint", set.Fingerprint())
	return jsonResponse(http.StatusOK, ack{
		Acknowledged:   true,
		Configurations: set.Len(),
		Fingerprint:    set.Fingerprint(),
	})
}

func (p *Processor) showConfig(ctx context.Context) (*backend.Response, error) {
	set, err := p.repository.Load(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return jsonResponse(http.StatusNotFound, map[string]string{"error": "no configuration stored"})
	}
	if err != nil {
		return nil, internal("load configuration", err)
	}
	body, err := fieldconfig.Encode(set)
	if err != nil {
		return nil, internal("encode configuration", err)
	}
	return &backend.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       body,
	}, nil
}

// configs loads the stored configuration; none stored is an empty set.
func (p *Processor) configs(ctx context.Context) (core.ConfigSet, error) {
	set, err := storage.LoadOrEmpty(ctx, p.repository)
	if err != nil {
		return core.ConfigSet{}, internal("load configuration", err)
	}
	return set, nil
}

func (p *Processor) forward(ctx context.Context, req *backend.Request) (*backend.Response, error) {
	resp, err := p.client.Forward(ctx, req)
	if err != nil {
		return nil, internal("forward", err)
	}
	return resp, nil
}

// withBody returns a copy of req carrying body.
func withBody(req *backend.Request, body []byte) *backend.Request {
	out := *req
	out.Body = body
	if out.Header != nil {
		out.Header = out.Header.Clone()
		out.Header.Del("Content-Length")
	}
	return &out
}

func countFailed(outcomes []core.Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Failed() {
			n++
		}
	}
	return n
}

func jsonResponse(status int, v any) (*backend.Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, internal("encode response", err)
	}
	return &backend.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       body,
	}, nil
}

func textResponse(status int, message string) *backend.Response {
	return &backend.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"text/plain; charset=utf-8"}},
		Body:       []byte(message),
	}
}
