// Package qbvh implements the quantized 4-wide bounding-volume
// hierarchy: a fixed-layout node with 8-bit
// per-axis-per-child quantized bounds, built bottom-up and traversed
// both for AABB overlap queries and for the ray-tracer's slab test.
package qbvh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-collide/geom"
)

// LeafID is a stable index into the BVH's leaf array, assigned at
// entity/instance registration.
type LeafID int32

// Child slots are sign-encoded: ChildrenIdx[i] < 0 encodes a leaf
// (-ChildrenIdx[i]-1), 0 is "absent", and positive values are 1-based
// references into the node array.
const absentChild int32 = 0

// Node is the fixed-layout 4-wide quantized node.
type Node struct {
	MinPoint mgl32.Vec3
	ExpX     int8
	ExpY     int8
	ExpZ     int8

	QMinX [4]uint8
	QMinY [4]uint8
	QMinZ [4]uint8
	QMaxX [4]uint8
	QMaxY [4]uint8
	QMaxZ [4]uint8

	NumChildren int32
	ChildrenIdx [4]int32
}

// ChildIsAbsent reports whether slot i of the node holds no child.
func (n *Node) ChildIsAbsent(i int) bool { return n.ChildrenIdx[i] == absentChild }

// ChildIsLeaf reports whether slot i references a leaf rather than an
// internal node.
func (n *Node) ChildIsLeaf(i int) bool { return n.ChildrenIdx[i] < 0 }

// LeafOf decodes slot i (assumed ChildIsLeaf) into its LeafID.
func (n *Node) LeafOf(i int) LeafID { return LeafID(-n.ChildrenIdx[i] - 1) }

// InternalOf decodes slot i (assumed !ChildIsLeaf && !ChildIsAbsent)
// into a 0-based index into the tree's node array.
func (n *Node) InternalOf(i int) int { return int(n.ChildrenIdx[i]) - 1 }

func encodeLeaf(id LeafID) int32 { return -int32(id) - 1 }

func encodeInternal(nodeIdx int) int32 { return int32(nodeIdx) + 1 }

// axisScale returns 2^exp, the dequantization scale for one axis.
func axisScale(exp int8) float32 {
	return float32(math.Ldexp(1, int(exp)))
}

// DequantizeChildAABB reconstructs the conservative world-space AABB
// of slot i: dequantized = minPoint + q * 2^exp.
func (n *Node) DequantizeChildAABB(i int) geom.AABB {
	sx, sy, sz := axisScale(n.ExpX), axisScale(n.ExpY), axisScale(n.ExpZ)
	return geom.AABB{
		Min: mgl32.Vec3{
			n.MinPoint.X() + float32(n.QMinX[i])*sx,
			n.MinPoint.Y() + float32(n.QMinY[i])*sy,
			n.MinPoint.Z() + float32(n.QMinZ[i])*sz,
		},
		Max: mgl32.Vec3{
			n.MinPoint.X() + float32(n.QMaxX[i])*sx,
			n.MinPoint.Y() + float32(n.QMaxY[i])*sy,
			n.MinPoint.Z() + float32(n.QMaxZ[i])*sz,
		},
	}
}

// Tree is a built QBVH: a flat, depth-first-packed node array plus the
// index of the root (0-based; the 1-based ChildrenIdx encoding
// is a node-local concern, not a tree-level one).
type Tree struct {
	Nodes []Node
	Root  int
}

func (t *Tree) Empty() bool { return len(t.Nodes) == 0 }
