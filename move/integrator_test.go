// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package move

import (
	"testing"

	"github.com/bhopcore/corecast/bsp"
	"github.com/bhopcore/corecast/math/lin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noHitCaster is a Caster that never reports a contact, for tests that
// only care about the acceleration/gravity/jump arithmetic and want the
// collide-and-slide step to reduce to a plain Euler move.
type noHitCaster struct{}

func (noHitCaster) CastRay(ray *bsp.Ray) (bsp.CastResult, bool) { return bsp.CastResult{}, false }

// floorTree builds a world with a single solid half-space y <= 0, the
// same shape as the bsp package's own half-space fixture, oriented as a
// floor instead of a wall.
func floorTree(t *testing.T) *bsp.Tree {
	t.Helper()
	inodes := []bsp.InnerNode{
		{Plane: bsp.Plane{Norm: lin.V3{X: 0, Y: 1, Z: 0}, Dist: 0}, Pos: -1, Neg: -2},
	}
	leaves := []bsp.Leaf{{Solid: false}, {Solid: true}}
	tree, err := bsp.New(inodes, leaves, 0)
	require.NoError(t, err)
	return tree
}

func TestStepFreefallGravity(t *testing.T) {
	settings := DefaultSettings()
	player := PlayerState{Pos: lin.V3{X: 0, Y: 10, Z: 0}, Halfextents: lin.V3{X: 0.5, Y: 0.9, Z: 0.5}}
	input := Input{}
	dt := 0.1

	Step(&settings, &player, &input, noHitCaster{}, dt)

	assert.InDelta(t, -settings.Gravity*dt, player.Vel.Y, 1e-9)
	assert.InDelta(t, 10+player.Vel.Y*dt, player.Pos.Y, 1e-9)
	assert.False(t, player.Flags.Has(OnGround))
}

func TestStepFloorLanding(t *testing.T) {
	tree := floorTree(t)
	settings := DefaultSettings()
	settings.Gravity = 0 // isolate the collision response from gravity's own contribution this tick.
	dt := 0.1

	player := PlayerState{
		Pos:         lin.V3{X: 0, Y: 1.0, Z: 0},
		Vel:         lin.V3{X: 0, Y: -5, Z: 0},
		Halfextents: lin.V3{X: 0.5, Y: 0.9, Z: 0.5},
	}
	input := Input{}

	Step(&settings, &player, &input, tree, dt)

	// The box's downward velocity is canceled by the floor contact and
	// then zeroed outright by the reversal guard, since the clipped
	// velocity points back against the pre-clip velocity.
	assert.InDelta(t, 0, player.Vel.X, 1e-9)
	assert.InDelta(t, 0, player.Vel.Y, 1e-9)
	assert.InDelta(t, 0, player.Vel.Z, 1e-9)
	assert.True(t, player.Flags.Has(OnGround))

	// toi = (|d1| - pad - eps) / |d1-d2| = (1.0 - 0.9 - 1/16) / 0.5 = 0.075,
	// so the box only travels that fraction of the tick's 0.5-unit sweep.
	assert.InDelta(t, 1.0-5*dt*0.075, player.Pos.Y, 1e-9)
}

func TestStepRestingIsStable(t *testing.T) {
	tree := floorTree(t)
	settings := DefaultSettings()
	dt := 1.0 / 60.0

	// Box bottom exactly at the floor: d1 equals pad exactly, so every
	// tick's gravity nudge immediately re-triggers the same zero-toi
	// contact and gets clipped away again, a fixed point of Step.
	player := PlayerState{
		Pos:         lin.V3{X: 0, Y: 0.9, Z: 0},
		Halfextents: lin.V3{X: 0.5, Y: 0.9, Z: 0.5},
		Flags:       OnGround,
	}
	input := Input{}

	for i := 0; i < 10; i++ {
		Step(&settings, &player, &input, tree, dt)
	}

	assert.InDelta(t, 0, player.Vel.Len(), 1e-9)
	assert.True(t, player.Flags.Has(OnGround))
	assert.InDelta(t, 0.9, player.Pos.Y, 1e-9)
}

func TestStepAirstrafeGain(t *testing.T) {
	settings := DefaultSettings()
	settings.Gravity = 0 // isolate horizontal acceleration from vertical fall.
	dt := 1.0 / 60.0

	player := PlayerState{Vel: lin.V3{X: 0, Y: 0, Z: settings.AirSpeed}}
	input := Input{Wishvel: lin.V3{X: settings.AirSpeed, Y: 0, Z: 0}}

	Step(&settings, &player, &input, noHitCaster{}, dt)

	// maxdelta = AirAccel*MoveSpeed*dt = 100/60; wishspeed = AirSpeed = 2,
	// so addspeed is capped by maxdelta, not by the nominal air speed.
	maxdelta := settings.AirAccel * settings.MoveSpeed * dt
	wantVelX := maxdelta
	wantVel := lin.V3{X: wantVelX, Y: 0, Z: settings.AirSpeed}
	wantSpeed := wantVel.Len()
	assert.InDelta(t, wantVelX, player.Vel.X, 1e-9)
	assert.InDelta(t, wantSpeed, player.Vel.Len(), 1e-9)
	assert.Greater(t, player.Vel.Len(), settings.AirSpeed, "a strafing player should exceed the nominal air speed cap")

	for i := 0; i < 50; i++ {
		Step(&settings, &player, &input, noHitCaster{}, dt)
	}
	assert.Greater(t, player.Vel.Len(), 2.5)
}

func TestApplyJumpLatch(t *testing.T) {
	settings := DefaultSettings()
	player := PlayerState{Flags: OnGround}

	applyJump(&settings, &player, &Input{Jump: true})
	assert.InDelta(t, settings.JumpSpeed, player.Vel.Y, 1e-9)
	assert.True(t, player.Flags.Has(Jumped))
	assert.False(t, player.Flags.Has(OnGround))

	// Simulate regaining ground while the button is still held: the
	// latch, not the ground check, is what must block a second jump.
	player.Flags |= OnGround
	player.Vel.Y = -3 // sentinel; applyJump must not touch it this time.
	applyJump(&settings, &player, &Input{Jump: true})
	assert.InDelta(t, -3, player.Vel.Y, 1e-9)
	assert.True(t, player.Flags.Has(Jumped))

	// Releasing and re-pressing clears the latch and allows a new jump.
	player.Flags &^= Jumped
	applyJump(&settings, &player, &Input{Jump: true})
	assert.InDelta(t, settings.JumpSpeed, player.Vel.Y, 1e-9)
	assert.True(t, player.Flags.Has(Jumped))
}

func TestStepClearsJumpedOnRelease(t *testing.T) {
	settings := DefaultSettings()
	player := PlayerState{Flags: Jumped}

	Step(&settings, &player, &Input{Jump: false}, noHitCaster{}, 1.0/60.0)

	assert.False(t, player.Flags.Has(Jumped))
}
