package gpudesc

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/gekko-collide/geom"
	"github.com/gekko3d/gekko-collide/narrowphase"
	"github.com/gekko3d/gekko-collide/qbvh"
	"github.com/gekko3d/gekko-collide/raytrace"
)

type fixedLeaves map[qbvh.LeafID]geom.AABB

func (f fixedLeaves) LeafAABB(id qbvh.LeafID) geom.AABB { return f[id] }

func f32At(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestNodesBytesLayout(t *testing.T) {
	leaves := fixedLeaves{
		0: geom.AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}},
		1: geom.AABB{Min: mgl32.Vec3{2, 2, 2}, Max: mgl32.Vec3{3, 3, 3}},
	}
	tree := qbvh.Build([]qbvh.LeafID{0, 1}, leaves)
	data := NodesBytes(tree)
	require.Len(t, data, len(tree.Nodes)*NodeStride)

	n := &tree.Nodes[0]
	require.Equal(t, n.MinPoint.X(), f32At(data, 0))
	require.Equal(t, byte(n.ExpX), data[12])
	require.Equal(t, byte(n.NumChildren), data[15])
	require.Equal(t, uint32(n.ChildrenIdx[0]), binary.LittleEndian.Uint32(data[48:]))
}

func TestNodesBytesEmptyTreeYieldsOneZeroNode(t *testing.T) {
	require.Len(t, NodesBytes(&qbvh.Tree{}), NodeStride)
	require.Len(t, NodesBytes(nil), NodeStride)
}

func TestInstancesBytesLayout(t *testing.T) {
	tris := []raytrace.Triangle{
		{V0: mgl32.Vec3{-1, -1, 0}, V1: mgl32.Vec3{1, -1, 0}, V2: mgl32.Vec3{0, 1, 0}},
	}
	blas := raytrace.NewMeshBVH(tris)
	tlas := raytrace.NewTLAS([]raytrace.Instance{
		{BLAS: blas, Pos: mgl32.Vec3{5, 6, 7}, Rot: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 2, 3}},
	})

	data := InstancesBytes(tlas)
	require.Len(t, data, InstanceStride)
	require.Equal(t, float32(5), f32At(data, 0))
	require.Equal(t, float32(1), f32At(data, 28)) // identity quaternion w
	require.Equal(t, float32(2), f32At(data, 36)) // scale.y
	require.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[80:]))
}

func TestContactsBytesLayout(t *testing.T) {
	c := narrowphase.ContactConstraint{
		Count:  2,
		Normal: mgl32.Vec3{0, 0, 1},
	}
	c.Points[0] = mgl32.Vec4{1, 2, 3, 0.25}

	data := ContactsBytes([]narrowphase.ContactConstraint{c})
	require.Len(t, data, ContactStride)
	require.Equal(t, float32(0.25), f32At(data, 12)) // point 0 depth
	require.Equal(t, float32(1), f32At(data, 72))    // normal.z
	require.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[80:]))
}
