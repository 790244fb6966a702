package qbvh

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-collide/geom"
)

// LeafSource supplies a leaf's current world AABB for Build/Refit. The
// BVH never owns leaf storage itself; the leaf array belongs to the
// registration side.
type LeafSource interface {
	LeafAABB(id LeafID) geom.AABB
}

type leafRef struct {
	id       LeafID
	aabb     geom.AABB
	centroid mgl32.Vec3
}

// Build constructs a 4-wide tree bottom-up over leaves, partitioning by
// longest-axis median of centroids. Internal nodes are
// packed depth-first into a contiguous array.
func Build(leaves []LeafID, src LeafSource) *Tree {
	if len(leaves) == 0 {
		return &Tree{}
	}
	refs := make([]leafRef, len(leaves))
	for i, id := range leaves {
		aabb := src.LeafAABB(id)
		refs[i] = leafRef{id: id, aabb: aabb, centroid: aabb.Center()}
	}
	t := &Tree{}
	root := buildRecursive(refs, t)
	t.Root = root
	return t
}

// Refit keeps topology and recomputes node bounds assuming leaf AABBs
// changed but their count and arrangement did not.
func Refit(t *Tree, src LeafSource) {
	if t.Empty() {
		return
	}
	refitNode(t, t.Root, src)
}

// refitNode recomputes node i's quantized bounds bottom-up and returns
// its world AABB so the parent can fold it in turn.
func refitNode(t *Tree, i int, src LeafSource) geom.AABB {
	n := &t.Nodes[i]
	childBoxes := make([]geom.AABB, n.NumChildren)
	for c := 0; c < int(n.NumChildren); c++ {
		if n.ChildIsLeaf(c) {
			childBoxes[c] = src.LeafAABB(n.LeafOf(c))
		} else {
			childBoxes[c] = refitNode(t, n.InternalOf(c), src)
		}
	}
	quantizeInto(n, childBoxes)
	union := childBoxes[0]
	for c := 1; c < len(childBoxes); c++ {
		union = union.Union(childBoxes[c])
	}
	return union
}

// buildRecursive builds the subtree over refs and returns a ChildRef
// encoding for the caller to install in its parent's childrenIdx slot.
// A single leaf returns directly as a leaf reference; more than one
// leaf always produces an internal node (even the group-of-2..4 base
// case), so group sizes of 1 never allocate a Node.
func buildRecursive(refs []leafRef, t *Tree) int {
	groups := partitionFour(refs)

	idx := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{})

	childBoxes := make([]geom.AABB, 0, 4)
	var childRefs [4]int32
	numChildren := int32(0)
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		if len(g) == 1 {
			childRefs[numChildren] = encodeLeaf(g[0].id)
			childBoxes = append(childBoxes, g[0].aabb)
		} else {
			childIdx := buildRecursive(g, t)
			childRefs[numChildren] = encodeInternal(childIdx)
			childBoxes = append(childBoxes, subtreeAABB(t, childIdx))
		}
		numChildren++
	}

	n := &t.Nodes[idx]
	n.NumChildren = numChildren
	n.ChildrenIdx = childRefs
	quantizeInto(n, childBoxes)
	return idx
}

// subtreeAABB is the union of an already-built node's children boxes,
// recovered by dequantizing them (cheaper than threading the box back
// up through the recursion's return value during the initial build).
func subtreeAABB(t *Tree, idx int) geom.AABB {
	n := &t.Nodes[idx]
	box := n.DequantizeChildAABB(0)
	for c := 1; c < int(n.NumChildren); c++ {
		box = box.Union(n.DequantizeChildAABB(c))
	}
	return box
}

// partitionFour splits refs into up to 4 centroid-median groups by
// applying a longest-axis median split twice; two binary splits yield
// the tree's 4-wide fan-out.
func partitionFour(refs []leafRef) [4][]leafRef {
	if len(refs) <= 4 {
		var out [4][]leafRef
		for i, r := range refs {
			out[i] = []leafRef{r}
		}
		return out
	}
	left, right := medianSplit(refs)
	ll, lr := medianSplit(left)
	rl, rr := medianSplit(right)
	return [4][]leafRef{ll, lr, rl, rr}
}

// medianSplit partitions refs around the median centroid on the
// longest axis of their combined AABB. Groups of size <=1 are returned
// as-is (nothing to split further).
func medianSplit(refs []leafRef) ([]leafRef, []leafRef) {
	if len(refs) <= 1 {
		return refs, nil
	}
	box := refs[0].aabb
	for _, r := range refs[1:] {
		box = box.Union(r.aabb)
	}
	axis := box.LongestAxis()

	sorted := make([]leafRef, len(refs))
	copy(sorted, refs)
	sort.Slice(sorted, func(i, j int) bool {
		return centroidAxis(sorted[i], axis) < centroidAxis(sorted[j], axis)
	})
	mid := len(sorted) / 2
	return sorted[:mid], sorted[mid:]
}

func centroidAxis(r leafRef, axis int) float32 {
	switch axis {
	case 0:
		return r.centroid.X()
	case 1:
		return r.centroid.Y()
	default:
		return r.centroid.Z()
	}
}

// quantizeInto picks per-axis exponents for n so every childBoxes[i]
// quantizes within [0,255] on every axis,
// then fills n's quantized fields. qMin rounds down, qMax
// rounds up so the encoded box conservatively encloses the true box.
func quantizeInto(n *Node, childBoxes []geom.AABB) {
	union := childBoxes[0]
	for _, b := range childBoxes[1:] {
		union = union.Union(b)
	}
	n.MinPoint = union.Min
	extent := union.Max.Sub(union.Min)

	n.ExpX = chooseExponent(extent.X())
	n.ExpY = chooseExponent(extent.Y())
	n.ExpZ = chooseExponent(extent.Z())
	sx, sy, sz := axisScale(n.ExpX), axisScale(n.ExpY), axisScale(n.ExpZ)

	for i, b := range childBoxes {
		n.QMinX[i] = quantizeDown(b.Min.X()-n.MinPoint.X(), sx)
		n.QMinY[i] = quantizeDown(b.Min.Y()-n.MinPoint.Y(), sy)
		n.QMinZ[i] = quantizeDown(b.Min.Z()-n.MinPoint.Z(), sz)
		n.QMaxX[i] = quantizeUp(b.Max.X()-n.MinPoint.X(), sx)
		n.QMaxY[i] = quantizeUp(b.Max.Y()-n.MinPoint.Y(), sy)
		n.QMaxZ[i] = quantizeUp(b.Max.Z()-n.MinPoint.Z(), sz)
	}
}

// chooseExponent implements the Design Notes' safe rule:
// exp = ceil(log2(maxExtent/255)), clamped so a zero extent still gets
// a usable (small) positive scale.
func chooseExponent(extent float32) int8 {
	if extent <= 0 {
		return -24
	}
	e := math.Ceil(math.Log2(float64(extent) / 255.0))
	if e < -126 {
		e = -126
	}
	if e > 127 {
		e = 127
	}
	return int8(e)
}

func quantizeDown(delta, scale float32) uint8 {
	q := math.Floor(float64(delta / scale))
	return clampByte(q)
}

func quantizeUp(delta, scale float32) uint8 {
	q := math.Ceil(float64(delta / scale))
	return clampByte(q)
}

func clampByte(q float64) uint8 {
	if q < 0 {
		return 0
	}
	if q > 255 {
		return 255
	}
	return uint8(q)
}
