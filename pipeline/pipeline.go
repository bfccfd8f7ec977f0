package pipeline

import (
	"context"
	"iter"

	"github.com/kbukum/prefetchkit/prefetch"
)

// Iterator provides pull-based sequential access to a stream of values.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// Pipeline is a lazy chain of stages. Every run creates fresh iterators.
type Pipeline[T any] struct {
	create func(ctx context.Context) Iterator[T]
}

// Runnable is a pipeline bound to a sink, ready to execute.
type Runnable struct {
	run func(ctx context.Context) error
}

// Run executes the pipeline until completion, failure or cancellation.
func (r *Runnable) Run(ctx context.Context) error {
	return r.run(ctx)
}

// From creates a pipeline from an existing Iterator. The iterator is shared
// by every run, so such a pipeline is normally run once.
func From[T any](it Iterator[T]) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(context.Context) Iterator[T] { return it },
	}
}

// FromSource creates a pipeline that pulls from a prefetch.Source.
func FromSource[T any](src prefetch.Source[T]) *Pipeline[T] {
	return From[T](sourceIter[T]{src})
}

// FromSlice creates a pipeline over a slice of values.
func FromSlice[T any](items []T) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(context.Context) Iterator[T] {
			return sourceIter[T]{prefetch.FromSlice(items)}
		},
	}
}

// FromFunc creates a pipeline from an iterator factory called once per run.
func FromFunc[T any](fn func(ctx context.Context) Iterator[T]) *Pipeline[T] {
	return &Pipeline[T]{create: fn}
}

// Iter returns a fresh Iterator for this pipeline. The caller must Close it.
func (p *Pipeline[T]) Iter(ctx context.Context) Iterator[T] {
	return p.create(ctx)
}

// Drain creates a Runnable that pulls every value and hands it to sink.
func Drain[T any](p *Pipeline[T], sink func(context.Context, T) error) *Runnable {
	return &Runnable{
		run: func(ctx context.Context) error {
			for v, err := range All(ctx, p) {
				if err != nil {
					return err
				}
				if err := sink(ctx, v); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// ForEach runs the pipeline and calls fn for each value.
func ForEach[T any](ctx context.Context, p *Pipeline[T], fn func(context.Context, T) error) error {
	return Drain(p, fn).Run(ctx)
}

// Collect runs the pipeline and returns all values. On failure it returns
// the values pulled before the error.
func Collect[T any](ctx context.Context, p *Pipeline[T]) ([]T, error) {
	var out []T
	for v, err := range All(ctx, p) {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// All runs the pipeline as a range-over-func sequence. An error is yielded
// once as the final pair. The iterators are closed when the loop ends.
func All[T any](ctx context.Context, p *Pipeline[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		it := p.create(ctx)
		defer it.Close()
		for {
			v, ok, err := it.Next(ctx)
			if err != nil {
				yield(v, err)
				return
			}
			if !ok || !yield(v, nil) {
				return
			}
		}
	}
}

// sourceIter gives a Source the Close method of an Iterator.
type sourceIter[T any] struct {
	src prefetch.Source[T]
}

func (it sourceIter[T]) Next(ctx context.Context) (T, bool, error) { return it.src.Next(ctx) }

func (it sourceIter[T]) Close() error { return nil }

// errIter fails on the first pull.
type errIter[T any] struct {
	err error
}

func (it errIter[T]) Next(context.Context) (T, bool, error) {
	var zero T
	return zero, false, it.err
}

func (it errIter[T]) Close() error { return nil }
