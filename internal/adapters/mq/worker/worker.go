// Package worker answers queued neighbour queries on a fixed set of
// goroutines.
package worker

import (
	"context"
	"runtime"
	"strconv"
	"sync"

	"github.com/rinklabs/contractcomps/internal/adapters/mq/queue"
	"github.com/rinklabs/contractcomps/pkg/logger"
	"github.com/rinklabs/contractcomps/pkg/metrics"
)

// Task is what workers read off the queue.
type Task = queue.Task

// Queue defines how workers receive tasks.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Task
}

// Handler answers one task. Handlers run concurrently and must only touch
// state owned by the task.
type Handler interface {
	Handle(ctx context.Context, task Task) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, task Task) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, task Task) error { return f(ctx, task) }

// Stats counts the tasks a pool handled.
type Stats struct {
	Handled int
	Failed  int
}

// Pool runs workers over a queue until it is drained.
type Pool struct {
	workers int
	queue   Queue
	handler Handler
	name    string
	logger  logger.Logger
}

// NewPool creates a worker pool. A workerCount below one uses one worker
// per CPU.
func NewPool(workerCount int, q Queue, h Handler, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	p := &Pool{
		workers: workerCount,
		queue:   q,
		handler: h,
		name:    "worker-pool",
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named(p.name)
	}
	return p
}

// Workers returns the number of goroutines Run starts.
func (p *Pool) Workers() int { return p.workers }

// Run starts the workers and blocks until the queue channel is closed and
// drained or ctx is done. A failed task is logged and counted; it does not
// stop the other workers.
func (p *Pool) Run(ctx context.Context) Stats {
	tasks := p.queue.Dequeue(ctx)

	var (
		mu    sync.Mutex
		stats Stats
		wg    sync.WaitGroup
	)
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			handled, failed := p.loop(ctx, name, tasks)
			mu.Lock()
			stats.Handled += handled
			stats.Failed += failed
			mu.Unlock()
		}("worker-" + strconv.Itoa(i))
	}
	wg.Wait()
	return stats
}

func (p *Pool) loop(ctx context.Context, name string, tasks <-chan Task) (handled, failed int) {
	for {
		select {
		case <-ctx.Done():
			return handled, failed
		case task, ok := <-tasks:
			if !ok {
				return handled, failed
			}
			handled++
			if err := p.handler.Handle(ctx, task); err != nil {
				failed++
				metrics.RecordWorkerTask("error")
				metrics.RecordErrorByComponent("worker", "handler_error")
				p.logger.Warn(ctx, "task failed",
					logger.String("worker", name),
					logger.String("contract_id", task.ContractID),
					logger.Error(err),
				)
				continue
			}
			metrics.RecordWorkerTask("ok")
		}
	}
}
