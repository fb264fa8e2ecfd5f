// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package bsp

import "github.com/bhopcore/corecast/math/lin"

// Ray is secretly not a ray: it carries Halfextents so it can represent
// the sweep of an axis-aligned box from Orig to Orig+Dir, not just a
// point. Dir is the full displacement for the sweep, not a unit vector.
// A true ray has zero Halfextents.
type Ray struct {
	Orig        lin.V3
	Dir         lin.V3
	Halfextents lin.V3
}

// CastResult is the outcome of a cast that hit something: the
// time-of-impact as a fraction of Ray.Dir, and the outward normal of the
// plane that was hit.
type CastResult struct {
	Toi  float64
	Norm lin.V3
}

// PlaneCollisionVisitor observes plane contacts as a cast unwinds. The
// default "first hit" visitor built into Tree.CastRay only needs the
// single nearest result; callers that need every contact along the
// sweep supply their own through Tree.CastRayVisitor.
type PlaneCollisionVisitor interface {
	// VisitPlane is called for each plane the sweep actually contacted,
	// in increasing-TOI order along a given recursion path. When
	// ShouldVisitBoth is true and both sides of a straddled plane hit,
	// that plane is visited twice.
	VisitPlane(plane *Plane, result CastResult)

	// ShouldVisitBoth reports whether the cast should keep descending
	// both children of a straddled node instead of stopping at the
	// first solid hit. Most visitors only want the nearest contact and
	// can leave this false.
	ShouldVisitBoth() bool
}

// firstHitVisitor is the built-in PlaneCollisionVisitor used by
// Tree.CastRay: it keeps the minimum-TOI result seen.
type firstHitVisitor struct {
	best    CastResult
	hasBest bool
}

func (v *firstHitVisitor) VisitPlane(plane *Plane, result CastResult) {
	if !v.hasBest || result.Toi <= v.best.Toi {
		v.best = result
		v.hasBest = true
	}
}

func (v *firstHitVisitor) ShouldVisitBoth() bool { return false }
