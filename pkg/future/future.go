// Package future provides a value that settles exactly once.
package future

import (
	"context"

	"github.com/sourcegraph/conc/panics"
)

type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go runs fn on its own goroutine and settles with its result. A panic in fn
// rejects the future instead of crashing the process.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		var pc panics.Catcher
		pc.Try(func() {
			f.value, f.err = fn()
		})
		if r := pc.Recovered(); r != nil {
			var zero T
			f.value, f.err = zero, r.AsError()
		}
	}()

	return f
}

// Rejected returns a future already settled with err.
func Rejected[T any](err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), err: err}
	close(f.done)
	return f
}

// Done is closed once the future has settled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles or ctx ends. Giving up on ctx does not
// stop the underlying work.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
