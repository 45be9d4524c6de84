// Package fanout provides the bounded background worker pool used for
// best-effort side effects. Dispatch never blocks: when the queue is full
// the task is rejected and the caller decides what to log. Tasks run with a
// context detached from any request, so client cancellation does not unwind
// work that was already accepted.
package fanout

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

type Task func(ctx context.Context)

type Pool struct {
	tasks chan Task
	log   zerolog.Logger
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewPool(workers, queue int, log zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = 1
	}
	p := &Pool{tasks: make(chan Task, queue), log: log}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("fanout task panicked")
		}
	}()
	task(context.Background())
}

// Dispatch enqueues a task, reporting false when the pool is full or closed.
// The parameter is the plain function type so callers can depend on the pool
// through their own one-method interface.
func (p *Pool) Dispatch(task func(ctx context.Context)) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	select {
	case p.tasks <- task:
		return true
	default:
		return false
	}
}

// Close stops intake, then waits for queued tasks to drain.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()
	p.wg.Wait()
}
