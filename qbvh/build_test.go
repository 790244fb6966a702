package qbvh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/gekko-collide/geom"
)

type fixedLeaves map[LeafID]geom.AABB

func (f fixedLeaves) LeafAABB(id LeafID) geom.AABB { return f[id] }

// twoLeafTree builds one internal node
// wrapping two leaves at (0,0,0)-(1,1,1) and (2,2,2)-(3,3,3).
func twoLeafTree(t *testing.T) (*Tree, fixedLeaves) {
	t.Helper()
	leaves := fixedLeaves{
		0: geom.AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}},
		1: geom.AABB{Min: mgl32.Vec3{2, 2, 2}, Max: mgl32.Vec3{3, 3, 3}},
	}
	tree := Build([]LeafID{0, 1}, leaves)
	return tree, leaves
}

func TestBuildTwoLeafOverlap(t *testing.T) {
	tree, _ := twoLeafTree(t)
	require.Len(t, tree.Nodes, 1)

	var hits []LeafID
	FindOverlaps(tree, geom.AABB{Min: mgl32.Vec3{-10, -10, -10}, Max: mgl32.Vec3{10, 10, 10}}, func(id LeafID) {
		hits = append(hits, id)
	})
	require.ElementsMatch(t, []LeafID{0, 1}, hits)

	hits = nil
	FindOverlaps(tree, geom.AABB{Min: mgl32.Vec3{0.5, 0.5, 0.5}, Max: mgl32.Vec3{0.6, 0.6, 0.6}}, func(id LeafID) {
		hits = append(hits, id)
	})
	require.Equal(t, []LeafID{0}, hits)
}

// TestQBVHConservatism: for every
// node and every leaf in its subtree, the dequantized child AABB
// leading toward the leaf contains the leaf's AABB.
func TestQBVHConservatism(t *testing.T) {
	tree, leaves := twoLeafTree(t)
	n := &tree.Nodes[0]
	for i := 0; i < int(n.NumChildren); i++ {
		require.True(t, n.ChildIsLeaf(i))
		leafBox := leaves[n.LeafOf(i)]
		childBox := n.DequantizeChildAABB(i)
		require.True(t, childBox.Contains(leafBox), "child box must conservatively enclose leaf %d", n.LeafOf(i))
	}
}

func TestBuildManyLeavesConservatism(t *testing.T) {
	var ids []LeafID
	leaves := fixedLeaves{}
	n := 0
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			for z := 0; z < 4; z++ {
				id := LeafID(n)
				c := mgl32.Vec3{float32(x) * 2, float32(y) * 2, float32(z) * 2}
				leaves[id] = geom.AABB{Min: c, Max: c.Add(mgl32.Vec3{1, 1, 1})}
				ids = append(ids, id)
				n++
			}
		}
	}
	tree := Build(ids, leaves)

	var checkSubtree func(idx int) geom.AABB
	checkSubtree = func(idx int) geom.AABB {
		node := &tree.Nodes[idx]
		full := node.DequantizeChildAABB(0)
		for c := 0; c < int(node.NumChildren); c++ {
			childBox := node.DequantizeChildAABB(c)
			if node.ChildIsLeaf(c) {
				leafBox := leaves[node.LeafOf(c)]
				require.True(t, childBox.Contains(leafBox))
			} else {
				sub := checkSubtree(node.InternalOf(c))
				require.True(t, childBox.Contains(sub))
			}
			if c == 0 {
				full = childBox
			} else {
				full = full.Union(childBox)
			}
		}
		return full
	}
	checkSubtree(tree.Root)
}

func TestRefitUpdatesBounds(t *testing.T) {
	tree, leaves := twoLeafTree(t)
	moved := fixedLeaves{
		0: leaves[0],
		1: geom.AABB{Min: mgl32.Vec3{10, 10, 10}, Max: mgl32.Vec3{11, 11, 11}},
	}
	Refit(tree, moved)

	var hits []LeafID
	FindOverlaps(tree, geom.AABB{Min: mgl32.Vec3{10.2, 10.2, 10.2}, Max: mgl32.Vec3{10.3, 10.3, 10.3}}, func(id LeafID) {
		hits = append(hits, id)
	})
	require.Equal(t, []LeafID{1}, hits)
}
