package prefetch

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/kbukum/prefetchkit/errors"
)

func TestNewBuffer_InvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1, -100} {
		b, err := NewBuffer[int](capacity)
		if err == nil {
			t.Fatalf("capacity %d: expected error", capacity)
		}
		if b != nil {
			t.Errorf("capacity %d: expected nil buffer", capacity)
		}
		if !errors.Is(err, errors.ErrCodeInvalidCapacity) {
			t.Errorf("capacity %d: expected INVALID_CAPACITY, got %v", capacity, err)
		}
	}
}

func TestBuffer_FIFO(t *testing.T) {
	b, err := NewBuffer[int](3)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		if err := b.Put(ctx, i); err != nil {
			t.Fatalf("Put(%d): %v", i, err)
		}
	}
	if b.Len() != 3 || b.Cap() != 3 {
		t.Errorf("expected len 3 cap 3, got len %d cap %d", b.Len(), b.Cap())
	}
	for want := 1; want <= 3; want++ {
		got, err := b.Get(ctx)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got != want {
			t.Errorf("got %d, want %d", got, want)
		}
	}
	if b.Len() != 0 {
		t.Errorf("expected empty buffer, got len %d", b.Len())
	}
}

func TestBuffer_PutBlocksWhileFull(t *testing.T) {
	b, _ := NewBuffer[int](1)
	ctx := context.Background()
	if err := b.Put(ctx, 1); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- b.Put(ctx, 2) }()

	select {
	case <-done:
		t.Fatal("Put returned while the buffer was full")
	case <-time.After(50 * time.Millisecond):
	}

	if v, _ := b.Get(ctx); v != 1 {
		t.Errorf("expected 1, got %d", v)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Put: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Put did not resume after Get made room")
	}
	if v, _ := b.Get(ctx); v != 2 {
		t.Errorf("expected 2, got %d", v)
	}
}

func TestBuffer_GetBlocksWhileEmpty(t *testing.T) {
	b, _ := NewBuffer[string](2)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := b.Get(ctx)
	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = b.Put(context.Background(), "late")
	}()
	v, err := b.Get(context.Background())
	if err != nil || v != "late" {
		t.Fatalf("expected 'late', got %q (%v)", v, err)
	}
}

func TestBuffer_PutRespectsContext(t *testing.T) {
	b, _ := NewBuffer[int](1)
	_ = b.Put(context.Background(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.Put(ctx, 2); !stderrors.Is(err, context.Canceled) {
		t.Fatalf("expected Canceled, got %v", err)
	}
	if b.Len() != 1 {
		t.Errorf("expected the rejected value not to be stored, len %d", b.Len())
	}
}

func TestBuffer_CloseWakesWaiters(t *testing.T) {
	full, _ := NewBuffer[int](1)
	_ = full.Put(context.Background(), 1)
	empty, _ := NewBuffer[int](1)

	putErr := make(chan error, 1)
	getErr := make(chan error, 1)
	go func() { putErr <- full.Put(context.Background(), 2) }()
	go func() {
		_, err := empty.Get(context.Background())
		getErr <- err
	}()

	time.Sleep(20 * time.Millisecond)
	full.Close()
	empty.Close()
	empty.Close() // idempotent

	for name, ch := range map[string]chan error{"Put": putErr, "Get": getErr} {
		select {
		case err := <-ch:
			if !stderrors.Is(err, ErrBufferClosed) {
				t.Errorf("%s: expected ErrBufferClosed, got %v", name, err)
			}
		case <-time.After(time.Second):
			t.Fatalf("%s still blocked after Close", name)
		}
	}

	if _, err := full.Get(context.Background()); !stderrors.Is(err, ErrBufferClosed) {
		t.Errorf("expected Get on closed buffer to fail, got %v", err)
	}
}

func TestBuffer_DrainAfterClose(t *testing.T) {
	b, err := NewBuffer[int](3)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for i := range 3 {
		if err := b.Put(ctx, i); err != nil {
			t.Fatal(err)
		}
	}
	if b.Closed() {
		t.Fatal("buffer reported closed before Close")
	}

	b.Close()
	if !b.Closed() {
		t.Fatal("expected Closed after Close")
	}
	got := b.Drain()
	if len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Errorf("Drain = %v, want [0 1 2]", got)
	}
	if b.Len() != 0 {
		t.Errorf("expected empty buffer after Drain, len %d", b.Len())
	}
	if got := b.Drain(); len(got) != 0 {
		t.Errorf("second Drain = %v, want none", got)
	}
}
