package prefetch

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/prefetchkit/errors"
	"github.com/kbukum/prefetchkit/logger"
	"github.com/kbukum/prefetchkit/observability"
)

// producer drains a Source into a Buffer on its own goroutine.
type producer[T any] struct {
	src     Source[T]
	buf     *Buffer[Result[T]]
	id      string
	name    string
	tracing bool
	log     *logger.Logger
	metrics *observability.Metrics
	cancel  context.CancelFunc
	done    chan struct{}
}

// run pulls until the source ends, fails, or the buffer is closed. Every
// path except a closed buffer enqueues exactly one terminal Result.
func (p *producer[T]) run(ctx context.Context) {
	defer close(p.done)
	defer p.cancel()
	defer p.release()
	defer func() {
		if p.buf.Closed() {
			p.drop(context.WithoutCancel(ctx))
		}
	}()

	// Cancellation only targets the source; a put that has room must
	// still land so the consumer sees the terminal.
	putCtx := context.WithoutCancel(ctx)
	start := time.Now()
	produced := 0

	p.log.Debug("producer started", logger.Fields(logger.FieldCapacity, p.buf.Cap()))

	for {
		pullStart := time.Now()
		v, ok, err := p.pull(ctx, produced)
		took := time.Since(pullStart)
		if err != nil {
			p.fail(putCtx, err, produced)
			return
		}
		if !ok {
			if p.put(putCtx, End[T]()) {
				p.log.Debug("source exhausted", logger.Fields(
					logger.FieldItems, produced,
					logger.FieldDuration, time.Since(start).Milliseconds(),
				))
			}
			return
		}
		if !p.put(putCtx, Item(v)) {
			return
		}
		produced++
		p.metrics.RecordProduced(ctx, p.name, took)
	}
}

// pull fetches one item, converting errors and panics into AppErrors.
func (p *producer[T]) pull(ctx context.Context, index int) (T, bool, error) {
	if !p.tracing {
		return p.safeNext(ctx)
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanProduce, trace.WithAttributes(
		attribute.String(observability.AttrPrefetcher, p.name),
		attribute.String(observability.AttrPrefetcherID, p.id),
		attribute.Int(observability.AttrItemIndex, index),
	))
	defer span.End()

	v, ok, err := p.safeNext(ctx)
	if err != nil {
		observability.SetSpanError(span, err)
		span.SetAttributes(attribute.String(observability.AttrErrorCode, string(errors.CodeOf(err))))
	}
	return v, ok, err
}

func (p *producer[T]) safeNext(ctx context.Context) (v T, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, ok, err = zero, false, errors.SourcePanic(p.name, r)
		}
	}()

	v, ok, err = p.src.Next(ctx)
	if err != nil {
		var zero T
		return zero, false, errors.SourceFailed(p.name, err)
	}
	return v, ok, nil
}

func (p *producer[T]) fail(ctx context.Context, err error, produced int) {
	// A source interrupted by Close has not failed.
	if p.buf.Closed() {
		p.log.Debug("source stopped after close", logger.Fields(
			logger.FieldItems, produced,
			logger.FieldError, err.Error(),
		))
		return
	}

	code := errors.CodeOf(err)
	p.metrics.RecordFailure(ctx, p.name, string(code))
	p.log.WithError(err).Error("source failed", logger.Fields(
		logger.FieldItems, produced,
		"code", string(code),
	))
	p.put(ctx, Failure[T](err))
}

// put reports whether r was enqueued; false means the consumer closed.
func (p *producer[T]) put(ctx context.Context, r Result[T]) bool {
	if err := p.buf.Put(ctx, r); err != nil {
		p.log.Debug("producer stopped: consumer closed", logger.Fields("pending", r.Kind.String()))
		return false
	}
	return true
}

func (p *producer[T]) release() {
	r, ok := p.src.(releaser)
	if !ok {
		return
	}
	defer func() {
		if v := recover(); v != nil {
			err := errors.Internal(fmt.Errorf("release panicked: %v", v))
			p.log.WithError(err).Warn("source release failed", logger.Fields("code", string(err.Code)))
		}
	}()
	r.release()
}

// drop discards results left in a closed buffer, taking the items among them
// out of the occupancy count.
func (p *producer[T]) drop(ctx context.Context) {
	n := 0
	for _, r := range p.buf.Drain() {
		if r.Kind == KindItem {
			n++
		}
	}
	if n > 0 {
		p.metrics.RecordDropped(ctx, p.name, n)
	}
}
