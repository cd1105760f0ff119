// Package watch implements the live telemetry loop behind the watch
// command: sliding-window rate samplers over counter snapshots, a
// fixed-width terminal table renderer, a CSV row-stream renderer and an
// optional Prometheus exporter.
package watch

import "time"

// Sampler computes a sliding-window rate of change from point-in-time
// counter snapshots taken at uniform tick intervals. History length
// never exceeds the configured window; the oldest snapshot is evicted
// first.
type Sampler struct {
	sample   func() float64
	window   int
	interval time.Duration
	history  []float64
}

// NewSampler creates a sampler polling sample once per Tick, retaining
// up to window snapshots, with interval as the rate denominator.
func NewSampler(sample func() float64, window int, interval time.Duration) *Sampler {
	if window < 1 {
		window = 1
	}
	return &Sampler{
		sample:   sample,
		window:   window,
		interval: interval,
		history:  make([]float64, 0, window),
	}
}

// Tick takes one snapshot and returns the current per-second rate
// estimate: the mean of consecutive deltas across the retained history,
// divided by the interval. With one or zero snapshots retained the rate
// is 0.
func (s *Sampler) Tick() float64 {
	v := s.sample()
	if len(s.history) == s.window {
		copy(s.history, s.history[1:])
		s.history[len(s.history)-1] = v
	} else {
		s.history = append(s.history, v)
	}

	n := len(s.history)
	if n <= 1 {
		return 0
	}
	// The sum of consecutive deltas telescopes to newest minus oldest.
	mean := (s.history[n-1] - s.history[0]) / float64(n-1)
	return mean / s.interval.Seconds()
}

// Len returns the number of snapshots currently retained.
func (s *Sampler) Len() int {
	return len(s.history)
}
