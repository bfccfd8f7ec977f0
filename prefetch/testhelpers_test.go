package prefetch

import (
	"context"
	"sync/atomic"
	"time"
)

// countingSource yields 0..n-1 and counts completed pulls.
type countingSource struct {
	n      int
	delay  time.Duration
	pulled atomic.Int64
}

func (s *countingSource) Next(ctx context.Context) (int, bool, error) {
	i := int(s.pulled.Load())
	if i >= s.n {
		return 0, false, nil
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.pulled.Add(1)
	return i, true, nil
}

// gatedSource blocks each pull until a value is sent on gate.
type gatedSource struct {
	gate chan int
}

func (s *gatedSource) Next(ctx context.Context) (int, bool, error) {
	v, ok := <-s.gate
	return v, ok, nil
}

// failingSource yields items then returns err.
func failingSource(items []int, err error) Source[int] {
	i := 0
	return FromFunc(func(context.Context) (int, bool, error) {
		if i < len(items) {
			i++
			return items[i-1], true, nil
		}
		return 0, false, err
	})
}

func waitFor(cond func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return cond()
}
