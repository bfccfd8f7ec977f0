package prefetch

import (
	"context"
	"iter"

	"github.com/kbukum/prefetchkit/resilience"
)

// Source is a pull-based sequence of items.
//
// Next returns (v, true, nil) for an item, (zero, false, nil) once the
// sequence is exhausted, and a non-nil error when producing the next item
// failed. The method set matches pipeline.Iterator, so pipeline stages can be
// prefetched directly. A Source is only ever called from one goroutine.
type Source[T any] interface {
	Next(ctx context.Context) (T, bool, error)
}

// releaser is implemented by adapters that hold resources the producer must
// free when it stops pulling.
type releaser interface {
	release()
}

// SourceFunc adapts a function to Source.
type SourceFunc[T any] func(ctx context.Context) (T, bool, error)

// Next calls f.
func (f SourceFunc[T]) Next(ctx context.Context) (T, bool, error) { return f(ctx) }

// FromFunc adapts fn to Source.
func FromFunc[T any](fn func(ctx context.Context) (T, bool, error)) Source[T] {
	return SourceFunc[T](fn)
}

// FromSlice yields the elements of items in order.
func FromSlice[T any](items []T) Source[T] {
	return &sliceSource[T]{items: items}
}

type sliceSource[T any] struct {
	items []T
	index int
}

func (s *sliceSource[T]) Next(context.Context) (T, bool, error) {
	if s.index >= len(s.items) {
		var zero T
		return zero, false, nil
	}
	v := s.items[s.index]
	s.index++
	return v, true, nil
}

// FromSeq pulls from a range-over-func sequence. The sequence is started on
// the first pull and stopped when the producer finishes, even if it was
// abandoned early.
func FromSeq[T any](seq iter.Seq[T]) Source[T] {
	return &seqSource[T]{seq: seq}
}

type seqSource[T any] struct {
	seq  iter.Seq[T]
	next func() (T, bool)
	stop func()
}

func (s *seqSource[T]) Next(context.Context) (T, bool, error) {
	if s.next == nil {
		s.next, s.stop = iter.Pull(s.seq)
	}
	v, ok := s.next()
	return v, ok, nil
}

func (s *seqSource[T]) release() {
	if s.stop != nil {
		s.stop()
	}
}

// FromSeq2 pulls (value, error) pairs. The first non-nil error fails the
// sequence; its paired value is discarded.
func FromSeq2[T any](seq iter.Seq2[T, error]) Source[T] {
	return &seq2Source[T]{seq: seq}
}

type seq2Source[T any] struct {
	seq  iter.Seq2[T, error]
	next func() (T, error, bool)
	stop func()
}

func (s *seq2Source[T]) Next(context.Context) (T, bool, error) {
	if s.next == nil {
		s.next, s.stop = iter.Pull2(s.seq)
	}
	var zero T
	v, err, ok := s.next()
	if !ok {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

func (s *seq2Source[T]) release() {
	if s.stop != nil {
		s.stop()
	}
}

// Generate produces fn(ctx, 0), fn(ctx, 1), ... up to n items. A negative n
// generates until fn fails.
func Generate[T any](n int, fn func(ctx context.Context, i int) (T, error)) Source[T] {
	i := 0
	return SourceFunc[T](func(ctx context.Context) (T, bool, error) {
		var zero T
		if n >= 0 && i >= n {
			return zero, false, nil
		}
		v, err := fn(ctx, i)
		if err != nil {
			return zero, false, err
		}
		i++
		return v, true, nil
	})
}

// Retrying repeats a failed pull from src according to cfg before giving up
// with the last error. Only wrap sources whose Next can be called again after
// an error without skipping an item.
func Retrying[T any](src Source[T], cfg resilience.RetryConfig) Source[T] {
	return &retryingSource[T]{src: src, cfg: cfg}
}

type pulled[T any] struct {
	v  T
	ok bool
}

type retryingSource[T any] struct {
	src Source[T]
	cfg resilience.RetryConfig
}

func (s *retryingSource[T]) Next(ctx context.Context) (T, bool, error) {
	r, err := resilience.Retry(ctx, s.cfg, func(ctx context.Context, _ int) (pulled[T], error) {
		v, ok, err := s.src.Next(ctx)
		return pulled[T]{v: v, ok: ok}, err
	})
	return r.v, r.ok, err
}

func (s *retryingSource[T]) release() {
	if r, ok := s.src.(releaser); ok {
		r.release()
	}
}
