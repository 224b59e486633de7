package driver

import "time"

// DriverBuilderOption is a functional option for configuring a Driver.
type DriverBuilderOption func(*driverImpl)

// WithBeatSource sets where the frame beat is read from.
//
// Parameters:
//   - b: usually the beat simulator
//
// Returns:
//   - DriverBuilderOption: functional option that sets the beat source
func WithBeatSource(b BeatSource) DriverBuilderOption {
	return func(d *driverImpl) {
		d.beat = b
	}
}

// WithPlayback sets where the current theme and playing flag are read from.
//
// Parameters:
//   - p: usually the playback controller
//
// Returns:
//   - DriverBuilderOption: functional option that sets the playback state
func WithPlayback(p PlaybackState) DriverBuilderOption {
	return func(d *driverImpl) {
		d.playback = p
	}
}

// WithViewport sets the viewport whose size is copied into each frame.
//
// Parameters:
//   - v: usually the window
//
// Returns:
//   - DriverBuilderOption: functional option that sets the viewport
func WithViewport(v Viewport) DriverBuilderOption {
	return func(d *driverImpl) {
		d.viewport = v
	}
}

// WithProjectEvery runs Screen subsystems only on every n-th frame.
//
// Parameters:
//   - n: the frame stride, default 3
//
// Returns:
//   - DriverBuilderOption: functional option that sets the stride
func WithProjectEvery(n uint64) DriverBuilderOption {
	return func(d *driverImpl) {
		d.projectEvery = n
	}
}

// WithPointerSmoothing sets the per-frame easing factor of the pointer.
func WithPointerSmoothing(f float32) DriverBuilderOption {
	return func(d *driverImpl) {
		d.smoothing = f
	}
}

// WithClock replaces the wall clock used for failure log throttling.
func WithClock(clock func() time.Time) DriverBuilderOption {
	return func(d *driverImpl) {
		d.clock = clock
	}
}

// WithLogInterval sets the minimum time between failure logs of one kind.
func WithLogInterval(interval time.Duration) DriverBuilderOption {
	return func(d *driverImpl) {
		d.logInterval = interval
	}
}
