package profiler

import "time"

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often a sample is logged.
//
// Parameters:
//   - d: the interval
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the interval
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithFailures includes subsystem failure counts in every sample.
func WithFailures(src FailureSource) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.failures = src
	}
}

// WithBeat includes the published beat in every sample.
func WithBeat(fn func() float64) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.beat = fn
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// WithHostSampler replaces the gopsutil CPU and memory samplers.
func WithHostSampler(cpu, mem func() (float64, error)) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.cpu = cpu
		p.mem = mem
	}
}
