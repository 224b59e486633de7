package loader

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithStage pre-populates the cache, e.g. with a stage built for tests.
//
// Parameters:
//   - key: the cache key
//   - s: the stage
//
// Returns:
//   - LoaderBuilderOption: a function that caches the stage under key
func WithStage(key string, s Stage) LoaderBuilderOption {
	return func(l *loader) {
		l.stageCache[key] = s
	}
}
