// Package prefetch overlaps producing the next items of a sequence with
// consuming the current one.
//
// A Prefetcher wraps a Source and, as soon as it is created, starts one
// goroutine that pulls items from the source and pushes them into a bounded
// Buffer. The consumer pulls with Next and receives items in exactly the
// order the source produced them. At most Capacity produced items wait in the
// buffer; when it is full the producer blocks, so memory stays bounded.
//
//	p, err := prefetch.New(prefetch.FromSeq(loadBatches()), prefetch.WithCapacity(4))
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	for batch, err := range p.All(ctx) {
//	    if err != nil {
//	        return err
//	    }
//	    train(batch)
//	}
//
// # Termination
//
// The producer ends every run by enqueueing exactly one terminal Result:
// End when the source is exhausted, Failure when Next returned an error or
// panicked. The consumer never sees the terminal as a value. After End every
// call to Next reports (zero, false, nil); after Failure every call reports
// (zero, false, err) with the same error, which wraps the source's own error
// under errors.ErrCodeSourceFailed or errors.ErrCodeSourcePanic.
//
// # Concurrency
//
// A Prefetcher supports one producer and one consumer. A second goroutine
// calling Next while another call is in progress gets an
// errors.ErrCodeConcurrentUse error instead of racing. Close may be called
// from any goroutine; it releases a producer blocked on a full buffer and
// makes pending and future Next calls report end of sequence. An item whose
// production is already in progress is not interrupted unless the source
// honors the context it is given.
package prefetch
