package qbvh

import "github.com/gekko3d/gekko-collide/geom"

// Overlap queries use a deeper fixed stack than ray traversal (128 vs
// 32); query boxes can touch far more of the tree than a ray does.
const overlapStackCapacity = 128

// FindOverlaps traverses from the root with a depth-first stack of
// capacity 128, invoking fn(leaf) once per overlapping leaf in
// insertion order of children; no deduplication.
func FindOverlaps(t *Tree, box geom.AABB, fn func(LeafID)) {
	if t.Empty() {
		return
	}
	var stack [overlapStackCapacity]int
	sp := 0
	stack[sp] = t.Root
	sp++
	for sp > 0 {
		sp--
		node := &t.Nodes[stack[sp]]
		for i := 0; i < int(node.NumChildren); i++ {
			if node.ChildIsAbsent(i) {
				continue
			}
			childBox := node.DequantizeChildAABB(i)
			if !box.Overlaps(childBox) {
				continue
			}
			if node.ChildIsLeaf(i) {
				fn(node.LeafOf(i))
				continue
			}
			if sp >= overlapStackCapacity {
				panic("qbvh: overlap traversal stack exceeded capacity 128")
			}
			stack[sp] = node.InternalOf(i)
			sp++
		}
	}
}
