package projector

// ProjectorBuilderOption is a functional option for configuring a Projector.
type ProjectorBuilderOption func(*projectorImpl)

// WithMinSize sets the minimum projected width and height in pixels.
//
// Parameters:
//   - px: minimum size, default 10
//
// Returns:
//   - ProjectorBuilderOption: functional option that sets the minimum size
func WithMinSize(px float32) ProjectorBuilderOption {
	return func(p *projectorImpl) {
		p.minSize = px
	}
}

// WithMaxCoverage sets the largest fraction of the viewport the overlay may cover.
//
// Parameters:
//   - fraction: default 0.7
//
// Returns:
//   - ProjectorBuilderOption: functional option that sets the coverage limit
func WithMaxCoverage(fraction float32) ProjectorBuilderOption {
	return func(p *projectorImpl) {
		p.maxCoverage = fraction
	}
}

// WithFacingThresholds sets the minimum dot product between the screen normal and
// the direction to the camera, per camera mode.
//
// Parameters:
//   - fixed: threshold in Fixed mode, default 0.55
//   - explore: threshold in Explore mode, default 0.85
//
// Returns:
//   - ProjectorBuilderOption: functional option that sets both thresholds
func WithFacingThresholds(fixed, explore float32) ProjectorBuilderOption {
	return func(p *projectorImpl) {
		p.fixedFacing = fixed
		p.exploreFacing = explore
	}
}

// WithOpacities sets the anchor opacity while the overlay covers it and after it is hidden.
func WithOpacities(dimmed, restored float32) ProjectorBuilderOption {
	return func(p *projectorImpl) {
		p.dimmedOpacity = dimmed
		p.restoredOpacity = restored
	}
}

// WithFallbackVisible keeps the overlay visible at the centered fallback rect
// when projection fails, instead of hiding it.
func WithFallbackVisible(visible bool) ProjectorBuilderOption {
	return func(p *projectorImpl) {
		p.fallbackVisible = visible
	}
}
