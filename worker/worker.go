package worker

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/getsentry/sentry-go"
)

// Pool runs CPU intensive jobs, such as replaying recorded command streams, on a fixed number of
// goroutines. A panicking job is reported to sentry and returned from Wait as an error instead of
// taking the process down.
type Pool struct {
	queue chan func() error
	wg    sync.WaitGroup

	mu   sync.Mutex
	errs []error
}

// New starts a pool with n workers. If n is zero or negative, one worker per CPU is started.
func New(n int) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	p := &Pool{queue: make(chan func() error, n)}
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for f := range p.queue {
		p.run(f)
	}
}

func (p *Pool) run(f func() error) {
	defer p.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			hub := sentry.CurrentHub().Clone()
			hub.Recover(r)
			p.fail(fmt.Errorf("worker: job panicked: %v", r))
		}
	}()
	if err := f(); err != nil {
		p.fail(err)
	}
}

func (p *Pool) fail(err error) {
	p.mu.Lock()
	p.errs = append(p.errs, err)
	p.mu.Unlock()
}

// Submit queues f. It blocks while every worker is busy and the queue is full.
func (p *Pool) Submit(f func() error) {
	p.wg.Add(1)
	p.queue <- f
}

// Wait blocks until every submitted job has finished and returns their errors in completion order.
// The pool stops accepting jobs once Wait is called.
func (p *Pool) Wait() []error {
	close(p.queue)
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errs
}
