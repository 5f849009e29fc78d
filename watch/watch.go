// Package watch provides a single-slot, latest-value-wins broadcast.
//
// A [Slot] holds one value and a version number. Publishing overwrites the
// value and bumps the version; it never blocks and never queues. Each
// [Receiver] remembers the last version it observed and [Receiver.Changed]
// waits until a newer one exists, so a slow receiver skips intermediate
// values and only ever sees the most recent one.
package watch

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by [Receiver.Changed] once the slot is closed.
var ErrClosed = errors.New("watch: channel closed")

var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Slot is safe for concurrent use. The zero value is invalid; use [New].
type Slot[T any] struct {
	mu      sync.Mutex
	value   T
	version uint64
	closed  bool

	// notify is closed and replaced on every publish
	notify chan struct{}
}

// New returns a slot holding initial at version zero.
func New[T any](initial T) *Slot[T] {
	return &Slot[T]{value: initial, notify: make(chan struct{})}
}

// Publish stores v and wakes every waiting receiver. Publishing to a closed
// slot is a no-op.
func (s *Slot[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.value = v
	s.version++
	close(s.notify)
	s.notify = make(chan struct{})
}

// Load returns the current value and its version.
func (s *Slot[T]) Load() (T, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.version
}

// Close wakes every waiting receiver with [ErrClosed]. It is safe to call
// more than once.
func (s *Slot[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.notify)
	s.notify = closedChan
}

func (s *Slot[T]) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Subscribe returns a receiver that considers the current version seen, so
// its first [Receiver.Changed] waits for the next publish.
func (s *Slot[T]) Subscribe() *Receiver[T] {
	_, version := s.Load()
	return &Receiver[T]{slot: s, seen: version}
}

// Receiver tracks the last version one subscriber observed. A Receiver is
// not safe for concurrent use; give each goroutine its own.
type Receiver[T any] struct {
	slot *Slot[T]
	seen uint64
}

// Changed blocks until the slot holds a version newer than the last one
// this receiver returned, then returns that value. It returns [ErrClosed]
// once the slot is closed, and ctx.Err() if ctx is done first.
func (r *Receiver[T]) Changed(ctx context.Context) (T, error) {
	for {
		r.slot.mu.Lock()
		if r.slot.closed {
			r.slot.mu.Unlock()
			var zero T
			return zero, ErrClosed
		}
		if r.slot.version != r.seen {
			v := r.slot.value
			r.seen = r.slot.version
			r.slot.mu.Unlock()
			return v, nil
		}
		notify := r.slot.notify
		r.slot.mu.Unlock()

		select {
		case <-notify:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// Borrow returns the latest value without marking it seen.
func (r *Receiver[T]) Borrow() T {
	v, _ := r.slot.Load()
	return v
}

// Seen returns the last version this receiver returned from Changed.
func (r *Receiver[T]) Seen() uint64 {
	return r.seen
}
