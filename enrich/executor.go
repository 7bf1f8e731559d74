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


package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/enrichproxy/ai"
	"github.com/poiesic/enrichproxy/core"
)

const (
	// DefaultPoolSize is the number of workers shared by all requests.
	DefaultPoolSize = 50

	// IndexDeadline bounds the units of a single-document request.
	IndexDeadline = 10 * time.Second

	// BulkDeadline bounds the units of a bulk request.
	BulkDeadline = 300 * time.Second
)

// Executor runs analysis units on a bounded worker pool shared across requests.
type Executor struct {
	analyzer ai.Analyzer
	pool     *ants.Pool
	logger   *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor) error

// WithPoolSize sets the number of workers.
// Default is DefaultPoolSize.
func WithPoolSize(size int) Option {
	return func(e *Executor) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if e.pool != nil {
			e.pool.Release()
		}
		e.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewExecutor creates an executor calling analyzer.
// Call Release when the executor is no longer needed.
func NewExecutor(analyzer ai.Analyzer, opts ...Option) (*Executor, error) {
	if analyzer == nil {
		return nil, ErrAnalyzerRequired
	}

	pool, err := ants.NewPool(DefaultPoolSize)
	if err != nil {
		return nil, err
	}

	e := &Executor{
		analyzer: analyzer,
		pool:     pool,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(e); optErr != nil {
			e.Release()
			return nil, optErr
		}
	}
	e.logger = e.logger.With("component", "executor")
	return e, nil
}

// PoolSize returns the number of workers.
func (e *Executor) PoolSize() int {
	return e.pool.Cap()
}

// Release releases the worker pool.
// The executor should not be used after calling Release.
func (e *Executor) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// ExecuteSingular analyzes every item with its own call. Outcomes are returned
// in item order. Failed calls become outcomes with a suffixed locator and an
// error payload; only a missed deadline or a pool failure returns an error.
func (e *Executor) ExecuteSingular(ctx context.Context, items []core.ExtractionItem, deadline time.Duration) ([]core.Outcome, error) {
	outcomes := make([]core.Outcome, len(items))
	err := e.run(ctx, len(items), deadline, func(ctx context.Context, i int) {
		item := items[i]
		value, err := e.analyzer.Analyze(ctx, item.Operation, item.Language, item.Content)
		if err != nil {
			e.logger.Debug("analysis failed", "operation", item.Operation, "label", item.Locator.Label, "err", err)
			outcomes[i] = core.Outcome{Locator: item.Locator.Failed(), Operation: item.Operation, Err: analysisError(err)}
			return
		}
		outcomes[i] = core.Outcome{Locator: item.Locator, Operation: item.Operation, Value: value}
	})
	if err != nil {
		return nil, err
	}
	return outcomes, nil
}

// ExecuteBatches analyzes every group with one batch call. Responses are
// returned in group order. A failed call marks every item of its group as
// failed; only a missed deadline or a pool failure returns an error.
func (e *Executor) ExecuteBatches(ctx context.Context, groups []core.BatchGroup, deadline time.Duration) ([]BatchResponse, error) {
	responses := make([]BatchResponse, len(groups))
	err := e.run(ctx, len(groups), deadline, func(ctx context.Context, i int) {
		group := groups[i]
		result, err := e.analyzer.AnalyzeBatch(ctx, group.Key.Operation, group.Key.Language, group.Texts())
		if err != nil {
			e.logger.Debug("batch analysis failed", "key", group.Key, "items", len(group.Items), "err", err)
			responses[i] = failedResponse(group, analysisError(err))
			return
		}
		responses[i] = batchResponse(group, result)
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// run submits n tasks to the pool and waits for all of them or the deadline.
// A non-positive deadline waits without a time bound.
func (e *Executor) run(ctx context.Context, n int, deadline time.Duration, task func(ctx context.Context, i int)) error {
	if n == 0 {
		return nil
	}

	var cancel context.CancelFunc
	if deadline > 0 {
		ctx, cancel = context.WithTimeout(ctx, deadline)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []error
	)
	fail := func(err error) {
		mu.Lock()
		failures = append(failures, err)
		mu.Unlock()
	}

	wg.Add(n)
	// Submission blocks while the shared pool is saturated, so it happens
	// off the waiting goroutine to keep the deadline effective.
	go func() {
		for i := range n {
			err := e.pool.Submit(func() {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						fail(fmt.Errorf("task %d panicked: %v", i, r))
					}
				}()
				task(ctx, i)
			})
			if err != nil {
				fail(fmt.Errorf("submit task %d: %w", i, err))
				for range n - i {
					wg.Done()
				}
				return
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}

	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			e.logger.Warn("enrichment deadline exceeded", "units", n, "deadline", deadline)
			return fmt.Errorf("%w after %s", ErrDeadlineExceeded, deadline)
		}
		return fmt.Errorf("%w: %w", ErrInterrupted, err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(failures) > 0 {
		e.logger.Error("enrichment units failed", "units", n, "failures", len(failures))
		return fmt.Errorf("%w: %w", ErrPoolFailure, errors.Join(failures...))
	}
	return nil
}
