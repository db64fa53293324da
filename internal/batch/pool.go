// Package batch converts and stores many documents concurrently with a fixed
// pool of workers sharing one converter.
package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Handler processes a single item
type Handler func(ctx context.Context, item Item) error

// Result is the outcome of one item
type Result struct {
	Index    int
	ID       string
	Err      error
	Duration time.Duration
}

// Pool runs a handler over items with a fixed number of workers
type Pool struct {
	workers int
	handler Handler
	logger  *zap.Logger
	metrics *Metrics
}

// NewPool creates a pool. workers below one means a single worker; a nil
// logger disables logging.
func NewPool(workers int, handler Handler, logger *zap.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		workers: workers,
		handler: handler,
		logger:  logger,
		metrics: NewMetrics(),
	}
}

// Metrics returns the pool's metrics
func (p *Pool) Metrics() *Metrics {
	return p.metrics
}

// Run processes every item and returns the results in input order. Items not
// started before ctx is cancelled fail with the context error.
func (p *Pool) Run(ctx context.Context, items []Item) []Result {
	results := make([]Result, len(items))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.process(ctx, worker, items[i])
			}
		}(w)
	}

	p.logger.Debug("batch started",
		zap.Int("items", len(items)),
		zap.Int("workers", p.workers))

feed:
	for i := range items {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(items); j++ {
				results[j] = Result{Index: items[j].Index, ID: items[j].ID, Err: ctx.Err()}
				p.metrics.RecordFailure(0)
			}
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

func (p *Pool) process(ctx context.Context, worker int, item Item) (res Result) {
	start := time.Now()
	res = Result{Index: item.Index, ID: item.ID}

	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("panic processing item %d: %v", item.Index, r)
		}
		res.Duration = time.Since(start)
		if res.Err != nil {
			p.metrics.RecordFailure(res.Duration)
			p.logger.Warn("batch item failed",
				zap.Int("worker", worker),
				zap.Int("index", item.Index),
				zap.String("id", item.ID),
				zap.Error(res.Err))
			return
		}
		p.metrics.RecordSuccess(res.Duration)
	}()

	res.Err = p.handler(ctx, item)
	return res
}
