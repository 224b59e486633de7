// Package effects holds the stage's visual subsystems. Each one implements
// driver.Subsystem, keeps its own animation state and exposes a snapshot the
// renderer reads.
package effects

import (
	"math"
	"math/rand"

	"github.com/Carmen-Shannon/oxy-stage/engine/beat"
)

func sinf(x float64) float32 {
	return float32(math.Sin(x))
}

func cosf(x float64) float32 {
	return float32(math.Cos(x))
}

// defaultRand returns a seeded source when none is given.
func defaultRand(rng beat.Rand) beat.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewSource(rand.Int63()))
}
