// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package move

import "github.com/bhopcore/corecast/math/lin"

// Input is everything the integrator needs from outside a single tick.
// Wishvel is already rotated into world space by the caller; the
// integrator has no notion of yaw.
type Input struct {
	Wishvel lin.V3 // Desired horizontal velocity, world space.
	Jump    bool   // Jump button held this tick.
	Reset   bool   // Teleport back to spawn (debug).
}
