// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package move implements the fixed-timestep Quake-style player
// movement integrator: ground/air acceleration, friction, gravity,
// jumping and iterative collide-and-slide against a BSP world.
//
// Package move is provided as part of the vu (virtual universe) 3D engine.
package move

import (
	"github.com/bhopcore/corecast/bsp"
	"github.com/bhopcore/corecast/math/lin"
)

// Caster is the narrow slice of bsp.Tree the integrator depends on: a
// single swept-box query against static world geometry. Accepting an
// interface here, rather than *bsp.Tree directly, keeps the integrator
// testable against hand-built worlds without pulling in a real tree.
type Caster interface {
	CastRay(ray *bsp.Ray) (bsp.CastResult, bool)
}

// floorY is the normal.Y threshold above which a contact counts as
// ground rather than a wall or ceiling (about 45 degrees from vertical).
const floorY = 0.7

// maxSlideIterations bounds the collide-and-slide loop. Three sweeps is
// enough to resolve a corner; a fourth would only ever occur against
// geometry that is already degenerate.
const maxSlideIterations = 3

// maxContacts is the capacity of the per-slide contact set. Three or
// more mutually adversarial contacts already means "stuck", so this
// array is never grown.
const maxContacts = 4

// Step advances player by one fixed tick of duration dt against the
// world reachable through caster, given the settings and the player's
// input for this tick. Step always produces a valid next state; no
// error is ever returned.
func Step(settings *Settings, player *PlayerState, input *Input, caster Caster, dt float64) {
	if input.Reset {
		player.Spawn(lin.V3{X: 0, Y: 10, Z: 0})
	}

	applyJump(settings, player, input)

	accel, friction, speedcap := selectMoveParams(settings, player)

	applyFriction(settings, player, friction, dt)
	applyAcceleration(settings, player, input, accel, speedcap, dt)
	applyGravity(settings, player, dt)
	clampSpeed(player, settings.MaxSpeed)

	if !input.Jump {
		player.Flags &^= Jumped
	}

	collideAndSlide(player, caster, dt)
}

// applyJump sets vertical velocity on a debounced jump press. The
// Jumped latch ensures a single jump per button-press no matter how
// long the button stays held; it is cleared once the button is
// released, in Step, not here.
func applyJump(settings *Settings, player *PlayerState, input *Input) {
	if !input.Jump || !player.Flags.Has(OnGround) || player.Flags.Has(Jumped) {
		return
	}
	if player.Vel.Y > 0 {
		player.Vel.Y += settings.JumpSpeed
	} else {
		player.Vel.Y = settings.JumpSpeed
	}
	player.Flags &^= OnGround
	player.Flags |= Jumped
}

// selectMoveParams picks the acceleration, friction and speed cap to
// use this tick based on whether the player is grounded.
func selectMoveParams(settings *Settings, player *PlayerState) (accel, friction, speedcap float64) {
	if player.Flags.Has(OnGround) {
		return settings.Accel, settings.Friction, settings.MoveSpeed
	}
	return settings.AirAccel, 0, settings.AirSpeed
}

// applyFriction slows the player along its current direction of
// travel. Below speedeps, friction switches from exponential to
// linear so the player reaches exactly zero instead of asymptoting.
func applyFriction(settings *Settings, player *PlayerState, friction, dt float64) {
	speed := player.Vel.Len()
	if lin.AeqZ(speed) {
		return
	}
	dir := player.Vel
	dir.Unit()
	removespeed := friction * dt * removalBasis(speed, settings.SpeedEps)
	newspeed := lin.Clamp(speed-removespeed, 0, settings.MaxSpeed)
	player.Vel.Scale(&dir, newspeed)
}

func removalBasis(speed, speedeps float64) float64 {
	if speed < speedeps {
		return speedeps
	}
	return speed
}

// applyAcceleration is the characteristic Quake-style move step: the
// addspeed clamp is against zero rather than symmetric, so this step
// can never decelerate the player, only push it toward wishspeed. That
// asymmetry, combined with curspeed being a *projection* onto the
// wish direction rather than the velocity's own magnitude, is what
// lets a turning player gain speed without bound up to the air cap.
func applyAcceleration(settings *Settings, player *PlayerState, input *Input, accel, speedcap, dt float64) {
	wishspeed := lin.Clamp(input.Wishvel.Len(), 0, speedcap)
	if lin.AeqZ(wishspeed) {
		return
	}
	movedir := input.Wishvel
	movedir.Unit()

	curspeed := player.Vel.Dot(&movedir)
	maxdelta := accel * settings.MoveSpeed * dt
	addspeed := lin.Clamp(wishspeed-curspeed, 0, maxdelta)

	delta := lin.V3{}
	delta.Scale(&movedir, addspeed)
	player.Vel.Add(&player.Vel, &delta)
}

func applyGravity(settings *Settings, player *PlayerState, dt float64) {
	player.Vel.Y -= settings.Gravity * dt
}

func clampSpeed(player *PlayerState, maxspeed float64) {
	speed := player.Vel.Len()
	if lin.AeqZ(speed) {
		return
	}
	dir := player.Vel
	dir.Unit()
	player.Vel.Scale(&dir, lin.Clamp(speed, 0, maxspeed))
}

// collideAndSlide repeatedly sweeps the player's box through caster,
// stopping at the first surface each iteration and resolving velocity
// against the accumulating contact set, up to maxSlideIterations times.
func collideAndSlide(player *PlayerState, caster Caster, dt float64) {
	hitFloor := false
	numContacts := 0
	var contacts [maxContacts]lin.V3
	v := player.Vel
	preVel := player.Vel

	for i := 0; i < maxSlideIterations; i++ {
		if lin.AeqZ(dt) {
			break
		}

		moveray := bsp.Ray{
			Orig:        player.Pos,
			Halfextents: player.Halfextents,
		}
		moveray.Dir.Scale(&v, dt)

		result, hit := caster.CastRay(&moveray)
		if !hit {
			delta := lin.V3{}
			delta.Scale(&v, dt)
			player.Pos.Add(&player.Pos, &delta)
			break
		}

		if result.Norm.Y > floorY {
			hitFloor = true
		}

		if result.Toi > 0 {
			numContacts = 1
			delta := lin.V3{}
			delta.Scale(&v, result.Toi*dt)
			player.Pos.Add(&player.Pos, &delta)
			dt = dt * (1 - result.Toi)
			if result.Toi >= 1 {
				break
			}
		} else {
			numContacts++
			if numContacts > maxContacts {
				numContacts = maxContacts
			}
		}
		contacts[numContacts-1] = result.Norm

		v = resolveContacts(player.Vel, contacts[:numContacts])
		if v.Dot(&preVel) < 0 || v.Len() < 0.75 {
			v = lin.V3{}
		}
	}

	player.Vel = v
	if hitFloor {
		player.Flags |= OnGround
	} else {
		player.Flags &^= OnGround
	}
}

// resolveContacts picks a velocity that is non-separating against
// every active contact: first by trying to clip against each contact
// singly, then by sliding along the crease of exactly two contacts,
// and finally by zeroing out against three or more mutually
// adversarial contacts ("stuck in a corner").
func resolveContacts(vel lin.V3, contacts []lin.V3) lin.V3 {
	v := vel
	bad := true
	for i := range contacts {
		v = vel
		clipVelocity(&v, &contacts[i])
		bad = false
		for j := range contacts {
			if j == i {
				continue
			}
			if contacts[j].Dot(&v) < 0 {
				bad = true
				break
			}
		}
		if !bad {
			return v
		}
	}

	switch len(contacts) {
	case 1:
		v = vel
		clipVelocity(&v, &contacts[0])
	case 2:
		movedir := v
		movedir.Unit()
		crease := lin.V3{}
		crease.Cross(&contacts[0], &contacts[1])
		boosted := crease.Dot(&v)
		v.Scale(&crease, boosted)
		v.Scale(&v, 1+0.5*movedir.Dot(&contacts[0]))
	default:
		v = lin.V3{}
	}
	return v
}

// clipVelocity removes the component of v into the plane with normal
// n, with a small overbias (1.01) that pushes the result slightly away
// from the surface to avoid re-contact on the very next sub-step.
func clipVelocity(v *lin.V3, n *lin.V3) {
	d := v.Dot(n)
	removed := lin.V3{}
	removed.Scale(n, d*1.01)
	v.Sub(v, &removed)
}
