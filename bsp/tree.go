// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package bsp implements the binary space partitioning tree used to
// represent the static world: nested half-spaces classified solid or
// empty, queried either by point containment or by sweeping an
// axis-aligned box through the tree and finding the first surface it
// touches. The tree knows nothing about players; it only answers these
// two geometric questions, deterministically, over an immutable tree.
package bsp

import (
	"fmt"

	"github.com/bhopcore/corecast/math/lin"
)

// eps is the default contact backoff distance used by CastRay: a
// fraction of a world unit, matching the 1/16 convention the map
// format's unit scale is tuned around.
const eps = 1.0 / 16.0

// NodeIndex is a signed index into either the inner-node or the leaf
// array of a Tree. A non-negative value indexes Tree.Inodes directly.
// A negative value k encodes leaf index -k-1. This compact encoding
// lets a single child slot distinguish "more tree" from "a leaf"
// without a separate tag.
type NodeIndex int32

// IsLeaf reports whether this index refers to a leaf rather than an
// inner node.
func (n NodeIndex) IsLeaf() bool { return n < 0 }

// leafIndex decodes a leaf NodeIndex into an array index. Only valid
// when IsLeaf() is true.
func (n NodeIndex) leafIndex() int { return int(-n - 1) }

// InnerNode is a plane plus the two subtrees it splits space into. Pos
// is the subtree on the positive (n·p > d) side, Neg the subtree on the
// non-positive side.
type InnerNode struct {
	Plane Plane
	Pos   NodeIndex
	Neg   NodeIndex
}

// Leaf classifies a single convex region of space as solid or empty.
// Every point in the world is classified by exactly one leaf.
type Leaf struct {
	Solid bool
}

// Tree is an immutable BSP world. It owns the full set of inner nodes
// and leaves; Root names the entry point for queries. Construct with
// New, which validates the structural invariants once so that queries
// never need to.
type Tree struct {
	Inodes []InnerNode
	Leaves []Leaf
	Root   NodeIndex
}

// New builds a Tree from the given inner nodes, leaves and root index,
// validating the structural invariants required by every later query:
// indices in range, no empty arrays, unit-length plane normals. A
// malformed BSP is a load-time programmer/data error, not a runtime
// condition, so New fails loudly rather than deferring the problem to
// a query that would otherwise panic or silently misbehave deep in a
// recursive descent.
func New(inodes []InnerNode, leaves []Leaf, root NodeIndex) (*Tree, error) {
	if len(inodes) == 0 {
		return nil, fmt.Errorf("bsp: tree must have at least one inner node")
	}
	if len(leaves) == 0 {
		return nil, fmt.Errorf("bsp: tree must have at least one leaf")
	}
	if root < 0 || int(root) >= len(inodes) {
		return nil, fmt.Errorf("bsp: root index %d out of range [0,%d)", root, len(inodes))
	}
	for i := range inodes {
		n := &inodes[i]
		if !lin.Aeq(n.Plane.Norm.LenSqr(), 1) {
			return nil, fmt.Errorf("bsp: inner node %d has non-unit plane normal (len=%f)", i, n.Plane.Norm.Len())
		}
		if err := validateChild(n.Pos, i, len(inodes), len(leaves)); err != nil {
			return nil, err
		}
		if err := validateChild(n.Neg, i, len(inodes), len(leaves)); err != nil {
			return nil, err
		}
	}
	return &Tree{Inodes: inodes, Leaves: leaves, Root: root}, nil
}

func validateChild(child NodeIndex, owner, numInodes, numLeaves int) error {
	if child.IsLeaf() {
		li := child.leafIndex()
		if li < 0 || li >= numLeaves {
			return fmt.Errorf("bsp: inner node %d references out-of-range leaf %d", owner, li)
		}
		return nil
	}
	if int(child) >= numInodes {
		return fmt.Errorf("bsp: inner node %d references out-of-range inner node %d", owner, child)
	}
	return nil
}

// leaf looks up a leaf by (negative) NodeIndex.
func (t *Tree) leaf(idx NodeIndex) *Leaf { return &t.Leaves[idx.leafIndex()] }

// ContainsPoint reports whether p lies in solid space. Descends from
// the root comparing the plane's signed distance against zero: the
// non-strictly-positive side goes to Neg, strictly positive to Pos, so
// a point exactly on a plane is treated as being on the negative side.
// Total and deterministic for any well-formed tree, since every point
// reaches a leaf in finite depth.
func (t *Tree) ContainsPoint(p *lin.V3) bool {
	idx := t.Root
	for {
		n := &t.Inodes[idx]
		if n.Plane.SignedDistance(p) > 0 {
			if n.Pos.IsLeaf() {
				return t.leaf(n.Pos).Solid
			}
			idx = n.Pos
		} else {
			if n.Neg.IsLeaf() {
				return t.leaf(n.Neg).Solid
			}
			idx = n.Neg
		}
	}
}

// CastRay sweeps ray through the tree and returns the earliest contact,
// or ok=false if the sweep never touches solid space within [0,1]. This
// is the built-in "first hit" query; use CastRayVisitor for access to
// the full contact manifold along the sweep.
func (t *Tree) CastRay(ray *Ray) (result CastResult, ok bool) {
	v := &firstHitVisitor{}
	t.CastRayVisitor(ray, v)
	return v.best, v.hasBest
}

// CastRayVisitor sweeps ray through the tree, invoking visitor for
// every plane contact encountered. Most callers want CastRay, which is
// built on this entry point; a caller that wants more than the nearest
// contact supplies its own visitor here.
func (t *Tree) CastRayVisitor(ray *Ray, visitor PlaneCollisionVisitor) {
	end := lin.V3{}
	end.Add(&ray.Orig, &ray.Dir)
	t.castRayRecursive(ray, t.Root, 0, 1, &ray.Orig, &end, visitor)
}

// castRayRecursive tests ray against the subtree rooted at nodeidx,
// bounded by the parametric interval [start,end] and the corresponding
// world-space endpoints startpos/endpos. Returns true if the sweep hit
// solid space within this node's portion of the tree. Visitor calls
// happen while unwinding, after the relevant subtree's recursive calls
// have returned true, so a "first hit" visitor sees planes in
// increasing-TOI order along the recursion path.
func (t *Tree) castRayRecursive(ray *Ray, nodeidx NodeIndex, start, end float64, startpos, endpos *lin.V3, visitor PlaneCollisionVisitor) bool {
	if nodeidx.IsLeaf() {
		return t.leaf(nodeidx).Solid
	}
	if start > end {
		return false
	}

	n := &t.Inodes[nodeidx]
	plane := &n.Plane

	d1 := plane.SignedDistance(startpos)
	d2 := plane.SignedDistance(endpos)
	pad := supportPad(&plane.Norm, &ray.Halfextents)

	switch {
	case d1 > pad && d2 > pad:
		return t.castRayRecursive(ray, n.Pos, start, end, startpos, endpos, visitor)

	case d1 < -pad && d2 < -pad:
		return t.castRayRecursive(ray, n.Neg, start, end, startpos, endpos, visitor)

	case lin.Aeq(d1, d2):
		// Sweep runs parallel to the plane: never subdivide into both
		// sides from here, since doing so produces false positives.
		return false

	default:
		// Straddle: put the split pad+eps to the near side, the same way
		// a single swept-box/plane test would, so the box is still
		// reported as touching the surface a hair before it would
		// otherwise be classified as having crossed it. Unlike a bare
		// point test there are two children to recurse into here, but
		// both share this one split fraction: the near side is checked
		// up to it, and the far side is checked from it onward only if
		// the near side comes back clear or the visitor asks to visit
		// both sides. Reporting the far hit at this
		// same, earlier fraction (rather than at the point the box is
		// already fully past the plane) is what keeps a contact from
		// ever being discovered after the box has already penetrated it.
		var near, far NodeIndex
		var frac float64
		if d1 < d2 {
			near, far = n.Neg, n.Pos
			frac = (d1 + pad + eps) / (d1 - d2)
		} else {
			near, far = n.Pos, n.Neg
			frac = (d1 - pad - eps) / (d1 - d2)
		}
		frac = lin.Clamp(frac, 0, 1)

		gmid := start + (end-start)*frac
		mid := lin.V3{}
		mid.Lerp(startpos, endpos, frac)

		hit := false
		if t.castRayRecursive(ray, near, start, gmid, startpos, &mid, visitor) {
			visitor.VisitPlane(plane, CastResult{Toi: gmid, Norm: plane.Norm})
			hit = true
			if !visitor.ShouldVisitBoth() {
				return true
			}
		}
		if t.castRayRecursive(ray, far, gmid, end, &mid, endpos, visitor) {
			visitor.VisitPlane(plane, CastResult{Toi: gmid, Norm: plane.Norm})
			hit = true
		}
		return hit
	}
}
