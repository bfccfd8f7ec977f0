package prefetch

import (
	"context"
	stderrors "errors"
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/prefetchkit/errors"
	"github.com/kbukum/prefetchkit/logger"
	"github.com/kbukum/prefetchkit/observability"
)

const (
	stateRunning int32 = iota
	stateExhausted
)

// Prefetcher pulls items from a Source ahead of the consumer.
type Prefetcher[T any] struct {
	id      string
	name    string
	buf     *Buffer[Result[T]]
	prod    *producer[T]
	log     *logger.Logger
	metrics *observability.Metrics

	state     atomic.Int32
	busy      atomic.Bool
	closeOnce sync.Once

	// written only by the goroutine holding busy
	err     error
	iterErr error
}

// New creates a Prefetcher over src and starts producing immediately.
// The capacity defaults to 1; a capacity below one is rejected.
func New[T any](src Source[T], opts ...Option) (*Prefetcher[T], error) {
	if src == nil {
		return nil, errors.InvalidInput("source", "source is nil")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}

	buf, err := NewBuffer[Result[T]](o.cfg.Capacity)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	name := o.cfg.Name
	if name == "" {
		name = "prefetch-" + id[:8]
	}
	log := o.log
	if log == nil {
		log = logger.Get("prefetch")
	}
	log = log.WithFields(logger.Fields(logger.FieldPrefetcher, name, logger.FieldPrefetcherID, id))

	ctx, cancel := context.WithCancel(o.ctx)
	prod := &producer[T]{
		src:     src,
		buf:     buf,
		id:      id,
		name:    name,
		tracing: o.cfg.Tracing,
		log:     log,
		metrics: o.metrics,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	p := &Prefetcher[T]{
		id:      id,
		name:    name,
		buf:     buf,
		prod:    prod,
		log:     log,
		metrics: o.metrics,
	}

	go prod.run(ctx)
	return p, nil
}

// Next returns the next item, blocking until the producer delivers it.
//
// It returns (v, true, nil) for an item and (zero, false, nil) at the end of
// the sequence or after Close. If the source failed it returns
// (zero, false, err), and the same err on every later call. If ctx ends while
// waiting it returns ctx.Err() and nothing is lost; Next may be called again.
func (p *Prefetcher[T]) Next(ctx context.Context) (T, bool, error) {
	if !p.busy.CompareAndSwap(false, true) {
		var zero T
		return zero, false, errors.ConcurrentUse("Next")
	}
	defer p.busy.Store(false)
	return p.next(ctx)
}

// next does the work of Next; the caller holds busy.
func (p *Prefetcher[T]) next(ctx context.Context) (T, bool, error) {
	var zero T
	if p.state.Load() == stateExhausted {
		return zero, false, p.err
	}

	start := time.Now()
	r, err := p.buf.Get(ctx)
	if err != nil {
		if stderrors.Is(err, ErrBufferClosed) {
			return zero, false, p.err
		}
		return zero, false, err
	}

	switch r.Kind {
	case KindItem:
		p.metrics.RecordConsumed(ctx, p.name, time.Since(start))
		return r.Value, true, nil
	case KindFailure:
		p.err = r.Err
	}
	p.state.Store(stateExhausted)
	return zero, false, p.err
}

// All ranges over the remaining items. A failure is yielded once as the
// final pair; breaking out of the loop leaves the prefetcher usable.
func (p *Prefetcher[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			v, ok, err := p.Next(ctx)
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

// Items ranges over the remaining items and stops silently on error;
// check Err afterwards. A loop started while another consumer is pulling
// ends at once and logs a warning.
//
//	for batch := range p.Items(ctx) {
//	    train(batch)
//	}
//	if err := p.Err(); err != nil {
//	    return err
//	}
func (p *Prefetcher[T]) Items(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		first := true
		for {
			v, ok, taken := p.itemsStep(ctx, first)
			if !taken {
				p.log.Warn("Items loop ended: another consumer is pulling",
					logger.Fields(logger.FieldOperation, "Items"))
				return
			}
			first = false
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// itemsStep pulls one item for Items and records its error while holding
// busy. taken is false if another consumer held busy.
func (p *Prefetcher[T]) itemsStep(ctx context.Context, reset bool) (v T, ok, taken bool) {
	if !p.busy.CompareAndSwap(false, true) {
		return v, false, false
	}
	defer p.busy.Store(false)

	if reset {
		p.iterErr = nil
	}
	v, ok, err := p.next(ctx)
	if err != nil {
		p.iterErr = err
	}
	return v, ok, true
}

// Err returns the error that stopped the last Items loop, or the source
// failure if one was observed by Next.
func (p *Prefetcher[T]) Err() error {
	if p.iterErr != nil {
		return p.iterErr
	}
	return p.err
}

// Close abandons the iteration. A producer blocked on a full buffer returns
// at once; one inside Source.Next returns when that call does. Pending and
// future Next calls report the end of the sequence. Close always returns nil.
func (p *Prefetcher[T]) Close() error {
	p.closeOnce.Do(func() {
		p.state.Store(stateExhausted)
		p.buf.Close()
		p.prod.cancel()
		buffered := p.buf.Len()
		p.prod.drop(context.Background())
		p.log.Debug("prefetcher closed", logger.Fields("buffered", buffered))
	})
	return nil
}

// Done is closed when the producer goroutine has exited.
func (p *Prefetcher[T]) Done() <-chan struct{} { return p.prod.done }

// ID returns the unique identifier used in logs and spans.
func (p *Prefetcher[T]) ID() string { return p.id }

// Name returns the configured or generated name.
func (p *Prefetcher[T]) Name() string { return p.name }

// Len returns the number of results waiting in the buffer, including a
// terminal one.
func (p *Prefetcher[T]) Len() int { return p.buf.Len() }

// Cap returns the buffer capacity.
func (p *Prefetcher[T]) Cap() int { return p.buf.Cap() }

// Collect drains src through a Prefetcher and returns every item. On failure
// it returns the items received before the error.
func Collect[T any](ctx context.Context, src Source[T], opts ...Option) ([]T, error) {
	p, err := New(src, opts...)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	var out []T
	for v, err := range p.All(ctx) {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}
