package video

import "time"

// EmbedBuilderOption is a functional option for configuring an Embed.
type EmbedBuilderOption func(*embedImpl)

// WithTrackLength makes the embed report the end of every track after d of
// play time, for hosts without a player that reports it. 0 disables the timer.
//
// Parameters:
//   - d: the assumed track length
//
// Returns:
//   - EmbedBuilderOption: a function that applies the length
func WithTrackLength(d time.Duration) EmbedBuilderOption {
	return func(e *embedImpl) {
		e.length = d
	}
}
