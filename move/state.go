// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package move

import "github.com/bhopcore/corecast/math/lin"

// Flags records the implicit per-player state machine: IN_AIR, ON_GROUND,
// and the one-shot JUMPED latch that debounces the jump button.
type Flags uint8

const (
	// OnGround is set whenever the most recent collide-and-slide pass
	// ended with a contact normal steep enough to count as a floor
	// (norm.Y > 0.7, roughly within 45 degrees of vertical).
	OnGround Flags = 1 << iota

	// Jumped latches for the duration a jump button is held, so a
	// single press produces a single jump rather than bouncing every
	// tick the button stays down. Cleared as soon as the input layer
	// reports the button released.
	Jumped
)

// Has reports whether every bit set in mask is also set in f.
func (f Flags) Has(mask Flags) bool { return f&mask == mask }

// PlayerState is the position/velocity/orientation of one player,
// mutated in place by Step. The set of players is owned by the game
// world; the integrator borrows one player at a time.
type PlayerState struct {
	Pos         lin.V3  // World position of the collision box center.
	Vel         lin.V3  // World-space velocity.
	Pitch       float64 // Eye pitch, radians. Not used by the integrator itself.
	Yaw         float64 // Eye yaw, radians. Not used by the integrator itself.
	EyeHeight   float64 // Offset from Pos to the eye point, for the renderer.
	Halfextents lin.V3  // Half-extents of the player's swept collision box.
	Flags       Flags

	// LandTime and HoldJumpTime are debounce timers reserved for the
	// input layer (coyote-time jumps, jump buffering). The integrator
	// does not read or write them itself.
	LandTime     float64
	HoldJumpTime float64
}

// Spawn resets a player to the given point with zero velocity and no
// flags set, as used by the debug reset input.
func (p *PlayerState) Spawn(point lin.V3) {
	p.Pos = point
	p.Vel = lin.V3{}
	p.Flags = 0
}
