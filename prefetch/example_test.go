package prefetch_test

import (
	"context"
	"fmt"

	"github.com/kbukum/prefetchkit/logger"
	"github.com/kbukum/prefetchkit/prefetch"
)

func Example() {
	ctx := context.Background()
	batches := prefetch.Generate(3, func(_ context.Context, i int) (string, error) {
		return fmt.Sprintf("batch-%d", i), nil
	})

	p, err := prefetch.New(batches, prefetch.WithCapacity(2), prefetch.WithLogger(logger.Nop()))
	if err != nil {
		fmt.Println(err)
		return
	}
	defer p.Close()

	for batch := range p.Items(ctx) {
		fmt.Println(batch)
	}
	if err := p.Err(); err != nil {
		fmt.Println(err)
	}
	// Output:
	// batch-0
	// batch-1
	// batch-2
}

func ExamplePrefetcher_Next() {
	ctx := context.Background()
	p, _ := prefetch.New(prefetch.FromSlice([]int{1, 2}), prefetch.WithLogger(logger.Nop()))
	defer p.Close()

	for {
		v, ok, err := p.Next(ctx)
		if err != nil {
			fmt.Println("failed:", err)
			return
		}
		if !ok {
			fmt.Println("done")
			return
		}
		fmt.Println(v)
	}
	// Output:
	// 1
	// 2
	// done
}
