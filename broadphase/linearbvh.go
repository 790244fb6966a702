// Package broadphase builds a per-world 4-wide float-bounds BVH over
// dynamic-entity AABBs and emits candidate colliding pairs.
package broadphase

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-collide/geom"
)

// sentinel marks an absent child slot.
const sentinel uint32 = 0xFFFFFFFF

const leafBit uint32 = 1 << 31

// LinearNode is the broad-phase's float-bounds 4-wide node. children[i]
// packs a leaf flag in the high bit with the remaining 31 bits
// indexing either the leaf-entities array (leaf) or the internal-nodes
// array (non-leaf).
type LinearNode struct {
	Min      [4]geom.AABB
	Children [4]uint32
	Count    int32
}

func isLeafChild(c uint32) bool { return c&leafBit != 0 }
func childIndex(c uint32) int   { return int(c &^ leafBit) }
func encodeLeafChild(i int) uint32 {
	return leafBit | uint32(i)
}
func encodeInternalChild(i int) uint32 { return uint32(i) }

// Tree is a built LinearBVH: one leaf AABB per dynamic entity slot plus
// the internal node array.
type Tree struct {
	LeafAABBs []geom.AABB
	Nodes     []LinearNode
	Root      int
}

func (t *Tree) Empty() bool { return len(t.Nodes) == 0 }

type leafRef struct {
	slot     int
	aabb     geom.AABB
	centroid mgl32.Vec3
}

// Build constructs the tree bottom-up over the given leaf slots,
// partitioning by longest-axis median of centroids, the same policy
// the quantized BVH uses, applied to the
// broad-phase's float-bounds variant.
func Build(leafAABBs []geom.AABB, activeSlots []int) *Tree {
	t := &Tree{LeafAABBs: leafAABBs}
	if len(activeSlots) == 0 {
		return t
	}
	refs := make([]leafRef, len(activeSlots))
	for i, slot := range activeSlots {
		refs[i] = leafRef{slot: slot, aabb: leafAABBs[slot], centroid: leafAABBs[slot].Center()}
	}
	t.Root = buildRecursive(refs, t)
	return t
}

// Refit keeps topology (same active slots, same tree shape) and
// recomputes node bounds from the current LeafAABBs.
func Refit(t *Tree) {
	if t.Empty() {
		return
	}
	refitNode(t, t.Root)
}

func refitNode(t *Tree, idx int) geom.AABB {
	n := &t.Nodes[idx]
	var union geom.AABB
	for i := 0; i < int(n.Count); i++ {
		var box geom.AABB
		if isLeafChild(n.Children[i]) {
			box = t.LeafAABBs[childIndex(n.Children[i])]
		} else {
			box = refitNode(t, childIndex(n.Children[i]))
		}
		n.Min[i] = box
		if i == 0 {
			union = box
		} else {
			union = union.Union(box)
		}
	}
	return union
}

func buildRecursive(refs []leafRef, t *Tree) int {
	groups := partitionFour(refs)

	idx := len(t.Nodes)
	t.Nodes = append(t.Nodes, LinearNode{Children: [4]uint32{sentinel, sentinel, sentinel, sentinel}})

	children := [4]uint32{sentinel, sentinel, sentinel, sentinel}
	var boxes [4]geom.AABB
	count := int32(0)
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		if len(g) == 1 {
			children[count] = encodeLeafChild(g[0].slot)
			boxes[count] = g[0].aabb
		} else {
			childIdx := buildRecursive(g, t)
			children[count] = encodeInternalChild(childIdx)
			boxes[count] = boundsOf(t, childIdx)
		}
		count++
	}
	// The recursive calls above may grow t.Nodes, so the node is
	// addressed only after they return.
	n := &t.Nodes[idx]
	n.Children = children
	n.Min = boxes
	n.Count = count
	return idx
}

func boundsOf(t *Tree, idx int) geom.AABB {
	n := &t.Nodes[idx]
	box := n.Min[0]
	for i := 1; i < int(n.Count); i++ {
		box = box.Union(n.Min[i])
	}
	return box
}

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
		return centroidAxis(sorted[i].centroid, axis) < centroidAxis(sorted[j].centroid, axis)
	})
	mid := len(sorted) / 2
	return sorted[:mid], sorted[mid:]
}

func centroidAxis(v mgl32.Vec3, axis int) float32 {
	switch axis {
	case 0:
		return v.X()
	case 1:
		return v.Y()
	default:
		return v.Z()
	}
}

// FindOverlaps traverses the tree against box, invoking fn(slot) per
// overlapping leaf slot (insertion order, no deduplication, mirroring
// qbvh.FindOverlaps' contract for the quantized variant).
func FindOverlaps(t *Tree, box geom.AABB, fn func(slot int)) {
	if t.Empty() {
		return
	}
	var stack [128]int
	sp := 0
	stack[sp] = t.Root
	sp++
	for sp > 0 {
		sp--
		n := &t.Nodes[stack[sp]]
		for i := 0; i < int(n.Count); i++ {
			c := n.Children[i]
			if c == sentinel {
				continue
			}
			if !box.Overlaps(n.Min[i]) {
				continue
			}
			if isLeafChild(c) {
				fn(childIndex(c))
				continue
			}
			stack[sp] = childIndex(c)
			sp++
		}
	}
}
