package camera

import "time"

// StageControllerOption is a functional option for configuring a StageController.
type StageControllerOption func(*stageControllerImpl)

// WithOrbitController replaces the default explore-mode orbit controller.
//
// Parameters:
//   - oc: the orbit controller
//
// Returns:
//   - StageControllerOption: functional option to set the orbit controller
func WithOrbitController(oc OrbitController) StageControllerOption {
	return func(sc *stageControllerImpl) {
		sc.orbit = oc
	}
}

// WithTransitionDuration sets how long eased moves take (default 1200ms).
//
// Parameters:
//   - d: the transition duration
//
// Returns:
//   - StageControllerOption: functional option to set the duration
func WithTransitionDuration(d time.Duration) StageControllerOption {
	return func(sc *stageControllerImpl) {
		sc.duration = d
	}
}
