// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package flow is a bounded, lock-free, single-producer/multi-subscriber
// ring buffer. The backing buffer is allocated once at construction;
// publishing and receiving never allocate.
//
// A producer claims a sequence, writes through the returned guard, and
// publishes it; each subscriber independently observes every published
// sequence exactly once, in order. The ring stalls the producer rather
// than overwrite a slot a slow subscriber hasn't read yet.
package flow

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"weak"
)

var (
	// ErrFull reports that the ring has no free slot: some subscriber
	// has not yet received data old enough to free it. Retryable.
	ErrFull = errors.New("flow: full")

	// ErrAhead reports that a subscriber has received everything
	// published so far. Retryable.
	ErrAhead = errors.New("flow: ahead")

	// ErrCapacityNotPowerOfTwo reports that New was asked for a
	// capacity that isn't a positive power of two, which the ring
	// requires so a sequence-to-slot index reduces to a mask.
	ErrCapacityNotPowerOfTwo = errors.New("flow: capacity must be a positive power of two")
)

// Flow is the producer's handle onto the ring. It is not safe to share
// a single Flow across goroutines — the ring is single-producer — but
// each of its Subscribers may run on a goroutine of its own.
type Flow[T any] struct {
	buffer []T
	mask   uint64

	nextWritable    atomic.Uint64
	nextPublishable atomic.Uint64

	// receivable holds a weak reference to each subscriber's cursor.
	// A subscriber whose strong references have all been dropped
	// stops contributing backpressure: its weak.Pointer.Value
	// returns nil and the producer treats that slot as permanently
	// caught up, matching the original's Weak<AtomicU64> design.
	receivable []weak.Pointer[atomic.Uint64]
}

// Subscriber independently tracks its own position in the ring. It is
// safe to use a distinct Subscriber from each of several goroutines,
// but not to share one Subscriber between goroutines.
type Subscriber[T any] struct {
	flow           *Flow[T]
	nextReceivable *atomic.Uint64
}

// New returns a Flow and exactly subscribers Subscribers onto it.
// capacity must be a positive power of two.
func New[T any](capacity, subscribers int) (*Flow[T], []*Subscriber[T], error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, nil, ErrCapacityNotPowerOfTwo
	}

	f := &Flow[T]{
		buffer:     make([]T, capacity),
		mask:       uint64(capacity) - 1,
		receivable: make([]weak.Pointer[atomic.Uint64], subscribers),
	}

	subs := make([]*Subscriber[T], subscribers)
	for i := range subs {
		cursor := new(atomic.Uint64)
		f.receivable[i] = weak.Make(cursor)
		subs[i] = &Subscriber[T]{flow: f, nextReceivable: cursor}
	}
	return f, subs, nil
}

// tryClaimPublishable attempts, once, to claim the next writable
// sequence. It does not retry on a losing compare-and-swap — TryNext
// reports that as Full, and it's Next's job to retry with a yield.
func (f *Flow[T]) tryClaimPublishable() (uint64, bool) {
	nextWritable := f.nextWritable.Load()

	minReceivable := f.nextPublishable.Load()
	for _, weakCursor := range f.receivable {
		if cursor := weakCursor.Value(); cursor != nil {
			if v := cursor.Load(); v < minReceivable {
				minReceivable = v
			}
		}
	}

	if minReceivable+uint64(len(f.buffer)) <= nextWritable {
		return 0, false
	}
	if !f.nextWritable.CompareAndSwap(nextWritable, nextWritable+1) {
		return 0, false
	}
	return nextWritable, true
}

// TryNext claims the next publishable sequence, returning ErrFull if
// the ring has no free slot right now.
func (f *Flow[T]) TryNext() (*WriteGuard[T], error) {
	sequence, ok := f.tryClaimPublishable()
	if !ok {
		return nil, ErrFull
	}
	return &WriteGuard[T]{flow: f, sequence: sequence}, nil
}

// Next claims the next publishable sequence, retrying on ErrFull with
// opts' yield function (runtime.Gosched by default) until it succeeds
// or ctx is done.
func (f *Flow[T]) Next(ctx context.Context, opts ...Option) (*WriteGuard[T], error) {
	o := resolveOptions(opts)
	for {
		guard, err := f.TryNext()
		if err == nil {
			return guard, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		o.Yield()
	}
}

// WriteGuard is a claimed, not-yet-published ring slot. Value returns
// a pointer to write the slot's new data through; Publish must be
// called exactly once, typically via defer, to make the slot visible
// to subscribers. A forgotten Publish stalls the ring: publication
// happens strictly in claim order, so every later sequence waits on
// this one.
type WriteGuard[T any] struct {
	flow      *Flow[T]
	sequence  uint64
	published bool
}

// Sequence reports the guard's claimed sequence number.
func (g *WriteGuard[T]) Sequence() uint64 { return g.sequence }

// Value returns a pointer to the guard's ring slot.
func (g *WriteGuard[T]) Value() *T {
	return &g.flow.buffer[g.sequence&g.flow.mask]
}

// Publish marks the guard's sequence as published. Sequences become
// visible strictly in claim order: this busy-loops until every
// earlier claimed sequence has published first.
func (g *WriteGuard[T]) Publish() {
	if g.published {
		return
	}
	g.published = true
	for !g.flow.nextPublishable.CompareAndSwap(g.sequence, g.sequence+1) {
	}
}

// TryNext returns the next unreceived value, or ErrAhead if the
// subscriber has received everything published so far.
func (s *Subscriber[T]) TryNext() (*ReadGuard[T], error) {
	nextReceivable := s.nextReceivable.Load()
	if nextReceivable >= s.flow.nextPublishable.Load() {
		return nil, ErrAhead
	}
	return &ReadGuard[T]{sub: s, sequence: nextReceivable}, nil
}

// Next returns the next unreceived value, retrying on ErrAhead with
// opts' yield function until one is published or ctx is done.
func (s *Subscriber[T]) Next(ctx context.Context, opts ...Option) (*ReadGuard[T], error) {
	o := resolveOptions(opts)
	for {
		guard, err := s.TryNext()
		if err == nil {
			return guard, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		o.Yield()
	}
}

// ReadGuard is a received-but-not-yet-released ring slot. Release
// must be called exactly once, typically via defer, to advance the
// subscriber's cursor past it; forgetting to call it leaves the
// subscriber re-observing the same sequence.
type ReadGuard[T any] struct {
	sub      *Subscriber[T]
	sequence uint64
	released bool
}

// Sequence reports the guard's sequence number.
func (g *ReadGuard[T]) Sequence() uint64 { return g.sequence }

// Value returns a pointer to the guard's ring slot. Callers must treat
// it as read-only: the producer may reuse the slot once Release has
// been called.
func (g *ReadGuard[T]) Value() *T {
	return &g.sub.flow.buffer[g.sequence&g.sub.flow.mask]
}

// Release advances the subscriber's cursor past the guard's sequence.
// Advances only ever move forward (fetch-max), so a release after a
// spurious re-observation never retreats the cursor.
func (g *ReadGuard[T]) Release() {
	if g.released {
		return
	}
	g.released = true
	next := g.sequence + 1
	for {
		current := g.sub.nextReceivable.Load()
		if next <= current {
			return
		}
		if g.sub.nextReceivable.CompareAndSwap(current, next) {
			return
		}
	}
}

// Options configures the retry behavior of Flow.Next/Subscriber.Next.
type Options struct {
	// Yield is called between each retry of a full/ahead ring.
	// Defaults to runtime.Gosched.
	Yield func()
}

// Option configures Options.
type Option func(*Options)

// WithYield overrides the function called between retries.
func WithYield(yield func()) Option {
	return func(o *Options) { o.Yield = yield }
}

func resolveOptions(opts []Option) Options {
	o := Options{Yield: runtime.Gosched}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
