package worker

import (
	"context"
	"sync"

	"github.com/apexeduai/vault-backend/internal/metrics"
)

type task func()

// Pool runs submitted tasks on a fixed set of goroutines. The buffered
// queue absorbs bursts; Submit blocks once the queue is full.
type Pool struct {
	wg   sync.WaitGroup
	jobs chan task
}

func NewPool(n int) *Pool {
	p := &Pool{jobs: make(chan task, 1024)}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				metrics.WorkerQueueDepth.Set(float64(len(p.jobs)))
				job()
			}
		}()
	}
	return p
}

func (p *Pool) Submit(f task) {
	p.jobs <- f
	metrics.WorkerQueueDepth.Set(float64(len(p.jobs)))
}

// Do runs f on the pool and waits for it to finish. It returns early if
// ctx is cancelled first; f may still run to completion in that case.
func (p *Pool) Do(ctx context.Context, f func()) error {
	done := make(chan struct{})
	p.Submit(func() {
		defer close(done)
		f()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) Stop() { close(p.jobs); p.wg.Wait() }
