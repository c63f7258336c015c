package aggregate

import "time"

// Sample is one observed unit of work: how long it took, and whether it
// should be excluded from aggregate statistics entirely (e.g. a request
// cancelled mid-flight).
type Sample struct {
	Duration time.Duration
	Abort    bool
}

// Stats accumulates running counts and a duration distribution across a
// stream of Samples.
type Stats struct {
	Results int64
	Time    DurationStat
}

// NewStats returns a Stats ready to Ingest.
func NewStats() *Stats {
	return &Stats{Time: NewDurationStat()}
}

func (s *Stats) Ingest(sample *Sample) {
	s.Results++
	s.Time.Ingest(sample.Duration)
}

func (s *Stats) End() {
	s.Time.End()
}
