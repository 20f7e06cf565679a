package common

import (
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
)

// Epsilon is the length below which a direction is treated as zero.
const Epsilon = 1e-6

// Direction returns the unit vector from a to b, or ok=false when the points coincide.
func Direction(from, to cp.Vector) (cp.Vector, bool) {
	d := to.Sub(from)
	l := d.Length()
	if l < Epsilon {
		return cp.Vector{}, false
	}
	return d.Mult(1 / l), true
}

// AwayFrom returns the unit vector pointing from threat to pos. When the two
// coincide, fallback is used instead.
func AwayFrom(pos, threat, fallback cp.Vector) cp.Vector {
	if dir, ok := Direction(threat, pos); ok {
		return dir
	}
	if l := fallback.Length(); l >= Epsilon {
		return fallback.Mult(1 / l)
	}
	return cp.Vector{X: 0, Y: 1}
}

// RandomInCircle returns a uniformly distributed point inside a circle of radius r.
func RandomInCircle(rng *rand.Rand, r float64) cp.Vector {
	angle := rng.Float64() * 2 * math.Pi
	dist := math.Sqrt(rng.Float64()) * r
	return cp.ForAngle(angle).Mult(dist)
}

// RandomUnit returns a random unit vector.
func RandomUnit(rng *rand.Rand) cp.Vector {
	return cp.ForAngle(rng.Float64() * 2 * math.Pi)
}
