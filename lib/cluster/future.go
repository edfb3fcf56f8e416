package cluster

import (
	"context"
	"sync"
)

// Future is the asynchronous handle returned by ICluster submit methods. It
// resolves exactly once, either with a result (Complete) or with an error
// (Fail); later transitions are ignored. Callers block on Await or
// AwaitContext until the handle reaches its terminal state.
type Future[R any] struct {
	done   chan struct{}
	once   sync.Once
	result R
	err    error
}

// NewFuture creates an unresolved Future.
func NewFuture[R any]() *Future[R] {
	return &Future[R]{done: make(chan struct{})}
}

// NewCompletedFuture creates a Future already resolved with a result.
func NewCompletedFuture[R any](result R) *Future[R] {
	f := NewFuture[R]()
	f.Complete(result)
	return f
}

// NewFailedFuture creates a Future already resolved with an error.
func NewFailedFuture[R any](err error) *Future[R] {
	f := NewFuture[R]()
	f.Fail(err)
	return f
}

// Complete resolves the future with a result. Only the first terminal
// transition (Complete or Fail) takes effect.
func (f *Future[R]) Complete(result R) {
	f.once.Do(func() {
		f.result = result
		close(f.done)
	})
}

// Fail resolves the future with an error. Only the first terminal
// transition (Complete or Fail) takes effect.
func (f *Future[R]) Fail(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done returns a channel that is closed once the future is terminal.
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// Await blocks the calling goroutine until the future is terminal and
// returns the result or the failure cause.
func (f *Future[R]) Await() (R, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext blocks until the future is terminal or the context is
// cancelled. On cancellation the context error is returned; the underlying
// operation is not aborted.
func (f *Future[R]) AwaitContext(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// Succeeded reports whether the future resolved without error. It must only
// be called after Done is closed.
func (f *Future[R]) Succeeded() bool {
	select {
	case <-f.done:
		return f.err == nil
	default:
		return false
	}
}

// Result returns the resolved value. Only valid after a successful
// resolution.
func (f *Future[R]) Result() R {
	return f.result
}

// Err returns the failure cause, or nil if the future succeeded or is still
// pending.
func (f *Future[R]) Err() error {
	return f.err
}
