package loader

import "io"

// loaderBackend turns a model file of one format into the flattened node
// table a Stage is built from.
type loaderBackend interface {
	// Load reads and flattens the model at path.
	//
	// Parameters:
	//   - path: the model file
	//
	// Returns:
	//   - []stageNode: named nodes in document order
	//   - error: error if parsing fails
	Load(path string) ([]stageNode, error)

	// LoadReader reads and flattens a model from a stream.
	//
	// Parameters:
	//   - r: the model bytes
	//   - isGLB: true for binary containers
	//
	// Returns:
	//   - []stageNode: named nodes in document order
	//   - error: error if parsing fails
	LoadReader(r io.Reader, isGLB bool) ([]stageNode, error)
}
