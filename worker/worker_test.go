package worker

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestPoolRunsEveryJob(t *testing.T) {
	p := New(4)
	var n atomic.Int64
	for i := 0; i < 100; i++ {
		p.Submit(func() error {
			n.Add(1)
			return nil
		})
	}
	if errs := p.Wait(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if n.Load() != 100 {
		t.Fatalf("expected 100 jobs to run, got %d", n.Load())
	}
}

func TestPoolCollectsErrorsAndPanics(t *testing.T) {
	p := New(0)
	failure := errors.New("digest mismatch")
	p.Submit(func() error { return failure })
	p.Submit(func() error { panic("bad recording") })
	p.Submit(func() error { return nil })

	errs := p.Wait()
	if len(errs) != 2 {
		t.Fatalf("expected two errors, got %v", errs)
	}
	var sawFailure bool
	for _, err := range errs {
		if errors.Is(err, failure) {
			sawFailure = true
		}
	}
	if !sawFailure {
		t.Fatalf("returned error was lost: %v", errs)
	}
}
