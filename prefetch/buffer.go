package prefetch

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/kbukum/prefetchkit/errors"
)

// ErrBufferClosed is returned by Put and Get once the buffer is closed.
var ErrBufferClosed = stderrors.New("prefetch: buffer closed")

// Buffer is a fixed-capacity blocking FIFO for one producer and one consumer.
// Put blocks while Cap values are held; Get blocks while it is empty.
type Buffer[E any] struct {
	ch        chan E
	closed    chan struct{}
	closeOnce sync.Once
}

// NewBuffer creates a buffer holding up to capacity values.
// A capacity below one is rejected with errors.ErrCodeInvalidCapacity.
func NewBuffer[E any](capacity int) (*Buffer[E], error) {
	if capacity < 1 {
		return nil, errors.InvalidCapacity(capacity)
	}
	return &Buffer[E]{
		ch:     make(chan E, capacity),
		closed: make(chan struct{}),
	}, nil
}

// Put appends v, waiting for room. It returns ctx.Err() if ctx ends first and
// ErrBufferClosed if the buffer is closed while waiting.
func (b *Buffer[E]) Put(ctx context.Context, v E) error {
	select {
	case <-b.closed:
		return ErrBufferClosed
	default:
	}

	select {
	case b.ch <- v:
		return nil
	case <-b.closed:
		return ErrBufferClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get removes and returns the oldest value, waiting for one to arrive. It
// returns ctx.Err() if ctx ends first and ErrBufferClosed once the buffer is
// closed; values still held at that point are dropped.
func (b *Buffer[E]) Get(ctx context.Context) (E, error) {
	var zero E
	select {
	case <-b.closed:
		return zero, ErrBufferClosed
	default:
	}

	select {
	case v := <-b.ch:
		return v, nil
	case <-b.closed:
		return zero, ErrBufferClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Close wakes every blocked Put and Get. It is safe to call more than once.
func (b *Buffer[E]) Close() {
	b.closeOnce.Do(func() { close(b.closed) })
}

// Closed reports whether Close has been called.
func (b *Buffer[E]) Closed() bool {
	select {
	case <-b.closed:
		return true
	default:
	}
	return false
}

// Drain removes and returns every value currently held without blocking.
func (b *Buffer[E]) Drain() []E {
	var out []E
	for {
		select {
		case v := <-b.ch:
			out = append(out, v)
		default:
			return out
		}
	}
}

// Len returns the number of values currently held.
func (b *Buffer[E]) Len() int { return len(b.ch) }

// Cap returns the capacity fixed at construction.
func (b *Buffer[E]) Cap() int { return cap(b.ch) }
