package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/kbukum/prefetchkit/logger"
	"github.com/kbukum/prefetchkit/observability"
	"github.com/kbukum/prefetchkit/pipeline"
	"github.com/kbukum/prefetchkit/prefetch"
)

// matrix is a square matrix stored row-major.
type matrix struct {
	n    int
	data []float64
}

// runResult is the outcome of one pass over all batches.
type runResult struct {
	Mode     string
	Capacity int
	Batches  int
	Elapsed  time.Duration
	Checksum float64
}

type bench struct {
	cfg      BenchmarkConfig
	prefetch prefetch.Config
	metrics  *observability.Metrics
	log      *logger.Logger
}

// batches returns a source that loads cfg.Batches random matrices, each after
// LoadDelay. Every call restarts from the configured seed.
func (b *bench) batches() prefetch.Source[matrix] {
	rng := rand.New(rand.NewPCG(b.cfg.Seed, b.cfg.Seed>>1|1))
	n := b.cfg.MatrixSize
	return prefetch.Generate(b.cfg.Batches, func(ctx context.Context, _ int) (matrix, error) {
		if err := sleep(ctx, b.cfg.LoadDelay); err != nil {
			return matrix{}, err
		}
		m := matrix{n: n, data: make([]float64, n*n)}
		for i := range m.data {
			m.data[i] = rng.Float64()
		}
		return m, nil
	})
}

// train multiplies m by its transpose and adds the trace to *sum after
// ComputeDelay.
func (b *bench) train(sum *float64) func(context.Context, matrix) error {
	return func(ctx context.Context, m matrix) error {
		if err := sleep(ctx, b.cfg.ComputeDelay); err != nil {
			return err
		}
		*sum += traceOfGram(m)
		return nil
	}
}

// run drains the batches through train, prefetching with the given capacity
// unless it is zero.
func (b *bench) run(ctx context.Context, capacity int) (runResult, error) {
	res := runResult{Mode: "sequential", Capacity: capacity, Batches: b.cfg.Batches}
	p := pipeline.FromSource(b.batches())
	if capacity > 0 {
		res.Mode = "prefetch"
		name := b.prefetch.Name
		if name == "" {
			name = "batches"
		}
		p = pipeline.Prefetch(p, capacity,
			prefetch.WithName(fmt.Sprintf("%s-c%d", name, capacity)),
			prefetch.WithTracing(b.prefetch.Tracing),
			prefetch.WithMetrics(b.metrics),
		)
	}

	start := time.Now()
	err := pipeline.ForEach(ctx, p, b.train(&res.Checksum))
	res.Elapsed = time.Since(start)
	return res, err
}

// runAll runs the sequential baseline followed by one prefetching run per
// capacity.
func (b *bench) runAll(ctx context.Context) ([]runResult, error) {
	capacities := append([]int{0}, b.cfg.Capacities...)
	results := make([]runResult, 0, len(capacities))
	for _, c := range capacities {
		res, err := b.run(ctx, c)
		if err != nil {
			return results, fmt.Errorf("%s run (capacity %d): %w", res.Mode, c, err)
		}
		b.report(res, results)
		results = append(results, res)
	}
	return results, nil
}

func (b *bench) report(res runResult, previous []runResult) {
	fields := logger.Fields(
		"mode", res.Mode,
		logger.FieldCapacity, res.Capacity,
		logger.FieldItems, res.Batches,
		"elapsed", res.Elapsed.Round(time.Millisecond).String(),
	)
	if len(previous) > 0 && res.Elapsed > 0 {
		base := previous[0]
		fields["speedup"] = fmt.Sprintf("%.2fx", float64(base.Elapsed)/float64(res.Elapsed))
		if res.Checksum != base.Checksum {
			b.log.Warn("checksum differs from sequential run", logger.Fields(
				"want", base.Checksum, "got", res.Checksum,
			))
		}
	}
	b.log.Info("run complete", fields)
}

// traceOfGram returns trace(m * mᵀ), the sum of squared entries.
func traceOfGram(m matrix) float64 {
	var sum float64
	for i := range m.n {
		row := m.data[i*m.n : (i+1)*m.n]
		for _, v := range row {
			sum += v * v
		}
	}
	return sum
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
