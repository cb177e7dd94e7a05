// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

// Future is the result of an operation that completes later. The
// suspending converter returns futures from every operation that may reach
// the remote API; awaiting one parks only the calling goroutine.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Go runs fn on a new goroutine and returns a future for its result.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.val, f.err = fn()
	}()
	return f
}

// Ready returns an already completed future.
func Ready[T any](val T, err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), val: val, err: err}
	close(f.done)
	return f
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the result is available and returns it.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.val, f.err
}
