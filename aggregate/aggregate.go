package aggregate

// Aggregate consumes Samples from in, folding each non-aborted one into
// stats, and forwards every sample unchanged on the returned channel so
// downstream consumers see the same stream. stats.End() runs once in is
// closed.
func Aggregate(stats *Stats, in <-chan Sample) <-chan Sample {
	ch := make(chan Sample)

	go func() {
		defer close(ch)
		defer stats.End()
		for sample := range in {
			if !sample.Abort {
				stats.Ingest(&sample)
			}
			ch <- sample
		}
	}()

	return ch
}
