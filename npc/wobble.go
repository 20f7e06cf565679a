package npc

import (
	"math"

	"github.com/jakecoffman/cp"
)

const wobbleRate = 2

// Wobble produces the small lateral drift layered over navigation movement.
type Wobble struct {
	Phase float64
}

func (w *Wobble) Advance(dt float64) {
	w.Phase += dt * wobbleRate
}

// Offset is the gentle drift used while wandering, at base and when taunting.
func (w Wobble) Offset(strength, dt float64) cp.Vector {
	return cp.Vector{
		X: math.Sin(w.Phase) * strength * dt,
		Y: math.Cos(w.Phase*0.7) * strength * dt,
	}
}

// Erratic is the faster, half-strength stagger of a dying NPC.
func (w Wobble) Erratic(strength, dt float64) cp.Vector {
	return cp.Vector{
		X: math.Sin(w.Phase*3) * strength * 0.5 * dt,
		Y: math.Cos(w.Phase*2) * strength * 0.5 * dt,
	}
}
