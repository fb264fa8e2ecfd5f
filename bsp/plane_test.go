// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package bsp

import (
	"testing"

	"github.com/bhopcore/corecast/math/lin"
	"github.com/stretchr/testify/assert"
)

func TestPlaneRaytest(t *testing.T) {
	plane := Plane{Norm: lin.V3{X: 1, Y: 0, Z: 0}, Dist: 0}
	ray := Ray{
		Orig: lin.V3{X: -0.5, Y: 0, Z: 0},
		Dir:  lin.V3{X: 1, Y: 0, Z: 0},
	}

	result := plane.testRay(&ray, eps)
	assert.Equal(t, sideSpan, result.side)
	// Zero halfextents means pad is zero, so the span toi is the true
	// geometric crossing (0.5) backed off by eps over a 1-unit sweep.
	assert.InDelta(t, 0.4375, result.span.Toi, 1e-9)
	assert.True(t, result.span.Norm.Aeq(&plane.Norm))
}

func TestPlaneCubetest(t *testing.T) {
	plane := Plane{Norm: lin.V3{X: 1, Y: 0, Z: 0}, Dist: 16}

	// The box's pad already covers the full approach: start and end both
	// sit within pad of the plane, so the backed-off toi clamps to 0.
	result := plane.testRay(&Ray{
		Orig:        lin.V3{X: 15, Y: 0, Z: 0},
		Dir:         lin.V3{X: 2, Y: 0, Z: 0},
		Halfextents: lin.V3{X: 1, Y: 1, Z: 1},
	}, eps)
	assert.Equal(t, sideSpan, result.side)
	assert.InDelta(t, 0.0, result.span.Toi, 1e-9)
	assert.True(t, result.span.Norm.Aeq(&plane.Norm))

	// A longer sweep through the same pad gives a genuine fractional toi:
	// (|startdist| - pad - eps) / totaldist = (2 - 1 - 1/16) / 4.
	result = plane.testRay(&Ray{
		Orig:        lin.V3{X: 14, Y: 0, Z: 0},
		Dir:         lin.V3{X: 4, Y: 0, Z: 0},
		Halfextents: lin.V3{X: 1, Y: 1, Z: 1},
	}, eps)
	assert.Equal(t, sideSpan, result.side)
	assert.InDelta(t, 0.234375, result.span.Toi, 1e-9)
	assert.True(t, result.span.Norm.Aeq(&plane.Norm))
}

func TestPlaneFrontBack(t *testing.T) {
	plane := Plane{Norm: lin.V3{X: 0, Y: 1, Z: 0}, Dist: 0}

	front := plane.testRay(&Ray{
		Orig: lin.V3{X: 0, Y: 10, Z: 0},
		Dir:  lin.V3{X: 0, Y: 1, Z: 0},
	}, eps)
	assert.Equal(t, sideFront, front.side)

	back := plane.testRay(&Ray{
		Orig: lin.V3{X: 0, Y: -10, Z: 0},
		Dir:  lin.V3{X: 0, Y: -1, Z: 0},
	}, eps)
	assert.Equal(t, sideBack, back.side)
}
