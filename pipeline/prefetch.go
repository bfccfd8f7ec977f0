package pipeline

import (
	"context"
	"slices"

	"github.com/kbukum/prefetchkit/prefetch"
)

// Prefetch runs the upstream stages on a background goroutine, keeping up to
// capacity finished values ready for the next stage. Order is preserved and
// an upstream error reaches the consumer as a prefetch SOURCE_FAILED error
// after every value produced before it.
//
// Options are passed to prefetch.New; the capacity argument and the run
// context take precedence. A capacity below one fails the first pull with
// INVALID_CAPACITY.
func Prefetch[T any](p *Pipeline[T], capacity int, opts ...prefetch.Option) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			source := p.create(ctx)
			pf, err := prefetch.New[T](source, slices.Concat(opts, []prefetch.Option{
				prefetch.WithCapacity(capacity),
				prefetch.WithContext(ctx),
			})...)
			if err != nil {
				_ = source.Close()
				return errIter[T]{err}
			}
			return &prefetchIter[T]{pf: pf, source: source}
		},
	}
}

type prefetchIter[T any] struct {
	pf     *prefetch.Prefetcher[T]
	source Iterator[T]
}

func (it *prefetchIter[T]) Next(ctx context.Context) (T, bool, error) {
	return it.pf.Next(ctx)
}

// Close stops the producer and waits for it to leave the upstream before
// closing it. An upstream stuck in a call that ignores its context delays
// Close until that call returns.
func (it *prefetchIter[T]) Close() error {
	_ = it.pf.Close()
	<-it.pf.Done()
	return it.source.Close()
}
