// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package bsp

// plane.go holds the oriented half-space primitive the tree is built from,
// and a standalone thick-ray/plane split test (testRay). Tree.CastRay
// does not call testRay; it uses supportPad directly.

import (
	"math"

	"github.com/bhopcore/corecast/math/lin"
)

// Plane is an oriented half-space {p : n·p = d}. The positive side is
// n·p > d. Norm is expected to be unit length; this is checked once at
// tree construction and assumed true afterward.
type Plane struct {
	Norm lin.V3  // unit normal.
	Dist float64 // signed distance of the plane from the origin.
}

// SignedDistance returns n·p - d: positive in front of the plane, negative
// behind it, zero exactly on it.
func (p *Plane) SignedDistance(point *lin.V3) float64 {
	return p.Norm.Dot(point) - p.Dist
}

// side names which half-space a straddle test landed in.
type side int

const (
	sideFront side = iota
	sideBack
	sideSpan
)

// splitResult is the outcome of testing a thick ray against a plane.
// Span is only meaningful when Side == sideSpan.
type splitResult struct {
	side side
	span CastResult
}

// supportPad returns the half-width of the projection of halfextents onto
// the plane normal: how far a swept box of that size "pokes through" this
// plane. A true ray (zero halfextents) has pad 0.
func supportPad(norm, halfextents *lin.V3) float64 {
	return math.Abs(halfextents.X*norm.X) +
		math.Abs(halfextents.Y*norm.Y) +
		math.Abs(halfextents.Z*norm.Z)
}

// testRay classifies a thick ray against the plane: entirely in Front,
// entirely in Back, or straddling (Span, with the clamped time-of-impact
// and contact normal filled in). eps backs the contact toi off fractionally
// so a subsequent sweep doesn't start embedded in the surface.
func (p *Plane) testRay(ray *Ray, eps float64) splitResult {
	pad := supportPad(&p.Norm, &ray.Halfextents)

	start := ray.Orig
	end := lin.V3{}
	end.Add(&ray.Orig, &ray.Dir)

	startdist := p.SignedDistance(&start)
	enddist := p.SignedDistance(&end)

	if startdist >= pad && enddist >= pad {
		return splitResult{side: sideFront}
	}
	if startdist <= -pad && enddist <= -pad {
		return splitResult{side: sideBack}
	}

	totaldist := math.Abs(startdist - enddist)
	if lin.AeqZ(totaldist) {
		if startdist >= 0 {
			return splitResult{side: sideFront}
		}
		return splitResult{side: sideBack}
	}

	toi := (math.Abs(startdist) - pad - eps) / totaldist
	toi = lin.Clamp(toi, 0, 1)

	return splitResult{side: sideSpan, span: CastResult{Toi: toi, Norm: p.Norm}}
}
