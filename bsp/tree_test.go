// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package bsp

import (
	"testing"

	"github.com/bhopcore/corecast/math/lin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// halfSpaceTree builds a tree with a single solid half-space x > 0
// (points on the plane go to the empty Neg side),
// matching the floor-at-x=0 shape used throughout the source's own
// bsp tests.
func halfSpaceTree(t *testing.T) *Tree {
	t.Helper()
	inodes := []InnerNode{
		{Plane: Plane{Norm: lin.V3{X: 1, Y: 0, Z: 0}, Dist: 0}, Pos: -2, Neg: -1},
	}
	leaves := []Leaf{{Solid: false}, {Solid: true}}
	tree, err := New(inodes, leaves, 0)
	require.NoError(t, err)
	return tree
}

// boxRegionTree builds a tree whose solid region is 0 < x <= 1 && y <= 1.
func boxRegionTree(t *testing.T) *Tree {
	t.Helper()
	inodes := []InnerNode{
		{Plane: Plane{Norm: lin.V3{X: 1, Y: 0, Z: 0}, Dist: 0}, Pos: 1, Neg: -1},
		{Plane: Plane{Norm: lin.V3{X: 1, Y: 0, Z: 0}, Dist: 1}, Pos: -1, Neg: 2},
		{Plane: Plane{Norm: lin.V3{X: 0, Y: 1, Z: 0}, Dist: 1}, Pos: -1, Neg: -2},
	}
	leaves := []Leaf{{Solid: false}, {Solid: true}}
	tree, err := New(inodes, leaves, 0)
	require.NoError(t, err)
	return tree
}

func TestNewRejectsMalformedTrees(t *testing.T) {
	_, err := New(nil, []Leaf{{}}, 0)
	assert.Error(t, err)

	_, err = New([]InnerNode{{Plane: Plane{Norm: lin.V3{X: 1}}, Pos: -1, Neg: -1}}, nil, 0)
	assert.Error(t, err)

	_, err = New([]InnerNode{{Plane: Plane{Norm: lin.V3{X: 1}}, Pos: -1, Neg: -1}}, []Leaf{{}}, 5)
	assert.Error(t, err)

	_, err = New([]InnerNode{{Plane: Plane{Norm: lin.V3{X: 2}}, Pos: -1, Neg: -1}}, []Leaf{{}}, 0)
	assert.Error(t, err, "non-unit normal should be rejected")

	_, err = New([]InnerNode{{Plane: Plane{Norm: lin.V3{X: 1}}, Pos: 7, Neg: -1}}, []Leaf{{}}, 0)
	assert.Error(t, err, "out of range inner node child should be rejected")

	_, err = New([]InnerNode{{Plane: Plane{Norm: lin.V3{X: 1}}, Pos: -9, Neg: -1}}, []Leaf{{}}, 0)
	assert.Error(t, err, "out of range leaf child should be rejected")
}

func TestContainsPointHalfSpace(t *testing.T) {
	tree := halfSpaceTree(t)
	assert.True(t, tree.ContainsPoint(&lin.V3{X: 1, Y: 0, Z: 0}))
	assert.False(t, tree.ContainsPoint(&lin.V3{X: -1, Y: 0, Z: 0}))
	// On-plane exactly is treated as the negative side, so not solid here.
	assert.False(t, tree.ContainsPoint(&lin.V3{X: 0, Y: 0, Z: 0}))
}

func TestContainsPointBoxRegion(t *testing.T) {
	tree := boxRegionTree(t)
	assert.True(t, tree.ContainsPoint(&lin.V3{X: 0.5, Y: 0, Z: 0}))
	assert.False(t, tree.ContainsPoint(&lin.V3{X: 1.5, Y: 0, Z: 0}))
	assert.False(t, tree.ContainsPoint(&lin.V3{X: 0.5, Y: 1.5, Z: 0}))
}

func TestCastRayStraight(t *testing.T) {
	tree := halfSpaceTree(t)
	result, ok := tree.CastRay(&Ray{
		Orig: lin.V3{X: -0.5, Y: 0, Z: 0},
		Dir:  lin.V3{X: 1, Y: 0, Z: 0},
	})
	require.True(t, ok)
	// Zero halfextents means pad is zero, so the reported toi is offset
	// from the true geometric crossing (0.5) by exactly eps over the
	// sweep's total distance (1 world unit): 0.5 - 1/16 = 0.4375.
	assert.InDelta(t, 0.4375, result.Toi, 1e-9)
	assert.True(t, result.Norm.Aeq(&lin.V3{X: 1, Y: 0, Z: 0}))
}

func TestCastRaySweepWithExtents(t *testing.T) {
	tree := halfSpaceTree(t)
	result, ok := tree.CastRay(&Ray{
		Orig:        lin.V3{X: -1, Y: 0, Z: 0},
		Dir:         lin.V3{X: 1, Y: 0, Z: 0},
		Halfextents: lin.V3{X: 0.5, Y: 0, Z: 0},
	})
	require.True(t, ok)
	// The box's leading face (halfextent 0.5) reaches the plane when its
	// center is at x=-0.5, i.e. at toi=0.5 of this 1-unit sweep; eps
	// backs that off to 0.4375, same as the zero-extent case above.
	assert.InDelta(t, 0.4375, result.Toi, 1e-9)
}

func TestCastRayMiss(t *testing.T) {
	tree := halfSpaceTree(t)
	_, ok := tree.CastRay(&Ray{
		Orig: lin.V3{X: -0.5, Y: 0, Z: 0},
		Dir:  lin.V3{X: -1, Y: 0, Z: 0},
	})
	assert.False(t, ok)
}

func TestCastRayZeroDisplacement(t *testing.T) {
	tree := halfSpaceTree(t)
	_, ok := tree.CastRay(&Ray{
		Orig: lin.V3{X: -5, Y: 0, Z: 0},
		Dir:  lin.V3{X: 0, Y: 0, Z: 0},
	})
	assert.False(t, ok, "a zero-displacement sweep never starts inside solid space here, so it reports no hit")
}

// recordingVisitor collects every plane contact seen, letting a test
// assert on TOI ordering instead of only the nearest hit.
type recordingVisitor struct {
	visits []CastResult
}

func (r *recordingVisitor) VisitPlane(plane *Plane, result CastResult) {
	r.visits = append(r.visits, result)
}
func (r *recordingVisitor) ShouldVisitBoth() bool { return true }

func TestCastRayVisitorOrdering(t *testing.T) {
	tree := halfSpaceTree(t)
	v := &recordingVisitor{}
	tree.CastRayVisitor(&Ray{
		Orig: lin.V3{X: -0.5, Y: 0, Z: 0},
		Dir:  lin.V3{X: 1, Y: 0, Z: 0},
	}, v)
	require.Len(t, v.visits, 1)
	assert.InDelta(t, 0.4375, v.visits[0].Toi, 1e-9)
}
