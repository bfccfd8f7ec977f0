// Package resilience retries failing operations with exponential backoff.
//
//	v, err := resilience.Retry(ctx, resilience.DefaultRetryConfig(),
//	    func(ctx context.Context, attempt int) (Batch, error) {
//	        return loadBatch(ctx, attempt)
//	    })
//
// prefetch.Retrying uses it to re-pull a source step that failed.
package resilience
