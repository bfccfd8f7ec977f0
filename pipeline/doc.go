// Package pipeline composes pull-based stages over a Source and lets any stage
// be prefetched on a background goroutine.
//
// Pipelines are lazy. Nothing runs until values are pulled via Collect,
// Drain, ForEach or All. Each synchronous stage pulls from the one before it
// on demand; Prefetch is the only stage that runs ahead, and it never holds
// more than its capacity in finished values.
//
// The Iterator interface adds Close to prefetch.Source, so any iterator can
// be handed to prefetch.New directly.
//
// # Usage
//
//	batches := pipeline.From(reader)
//	decoded := pipeline.Map(batches, decode)
//	ready := pipeline.Prefetch(decoded, 4, prefetch.WithName("decode"))
//	err := pipeline.ForEach(ctx, ready, train)
package pipeline
