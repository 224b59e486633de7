package theme

// TableBuilderOption is a functional option for configuring a Table during construction.
type TableBuilderOption func(*tableSnapshot)

// WithBuiltins loads the built-in track themes into the table.
//
// Returns:
//   - TableBuilderOption: functional option that copies the built-in entries
func WithBuiltins() TableBuilderOption {
	return func(s *tableSnapshot) {
		for id, th := range builtinThemes {
			s.entries[id] = th
		}
	}
}

// WithEntry adds or overrides a single track theme.
//
// Parameters:
//   - trackID: the track identifier
//   - th: the theme to associate
//
// Returns:
//   - TableBuilderOption: functional option that sets the entry
func WithEntry(trackID string, th Theme) TableBuilderOption {
	return func(s *tableSnapshot) {
		s.entries[trackID] = th
	}
}

// WithDefault replaces the fallback theme used for unknown tracks.
//
// Parameters:
//   - th: the default theme
//
// Returns:
//   - TableBuilderOption: functional option that sets the default theme
func WithDefault(th Theme) TableBuilderOption {
	return func(s *tableSnapshot) {
		s.def = th
	}
}
