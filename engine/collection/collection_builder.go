package collection

// CollectionBuilderOption is a functional option for configuring a Collection.
type CollectionBuilderOption func(*collectionImpl)

// WithRoster replaces the member roster names are checked against.
//
// Parameters:
//   - names: the allowed names
//
// Returns:
//   - CollectionBuilderOption: a function that applies the roster
func WithRoster(names ...string) CollectionBuilderOption {
	return func(c *collectionImpl) {
		c.allowed = make(map[string]struct{}, len(names))
		for _, n := range names {
			c.allowed[n] = struct{}{}
		}
	}
}
