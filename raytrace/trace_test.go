package raytrace

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/gekko-collide/qbvh"
)

func unitQuadTriangles() []Triangle {
	return []Triangle{
		{
			V0: mgl32.Vec3{-1, -1, 0}, V1: mgl32.Vec3{1, -1, 0}, V2: mgl32.Vec3{1, 1, 0},
			UV0: mgl32.Vec2{0, 0}, UV1: mgl32.Vec2{1, 0}, UV2: mgl32.Vec2{1, 1},
		},
		{
			V0: mgl32.Vec3{-1, -1, 0}, V1: mgl32.Vec3{1, 1, 0}, V2: mgl32.Vec3{-1, 1, 0},
			UV0: mgl32.Vec2{0, 0}, UV1: mgl32.Vec2{1, 1}, UV2: mgl32.Vec2{0, 1},
		},
	}
}

func TestTraceBLASHitsTriangle(t *testing.T) {
	blas := NewMeshBVH(unitQuadTriangles())
	ray := qbvh.Ray{Origin: mgl32.Vec3{0, 0, -5}, Dir: mgl32.Vec3{0, 0, 1}, TMax: 100}
	hit := TraceBLAS(blas, ray)
	require.True(t, hit.Hit)
	require.InDelta(t, 5, hit.THit, 1e-4)
}

// TestTraceBLASMissesOutsideRoot: a ray that misses the root AABB
// returns no hit.
func TestTraceBLASMissesOutsideRoot(t *testing.T) {
	blas := NewMeshBVH(unitQuadTriangles())
	ray := qbvh.Ray{Origin: mgl32.Vec3{100, 100, -5}, Dir: mgl32.Vec3{0, 0, 1}, TMax: 100}
	hit := TraceBLAS(blas, ray)
	require.False(t, hit.Hit)
}

func TestTraceRayTLASInstanceTransform(t *testing.T) {
	blas := NewMeshBVH(unitQuadTriangles())
	tlas := NewTLAS([]Instance{
		{BLAS: blas, Pos: mgl32.Vec3{0, 0, 10}, Rot: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}},
	})

	ray := qbvh.Ray{Origin: mgl32.Vec3{0, 0, 0}, Dir: mgl32.Vec3{0, 0, 1}, TMax: 1000}
	hit := TraceRayTLAS(tlas, ray)
	require.True(t, hit.Hit)
	require.InDelta(t, 10, hit.THit, 1e-3)
}

func TestTraceRayTLASSkipsZeroScaleInstance(t *testing.T) {
	blas := NewMeshBVH(unitQuadTriangles())
	tlas := NewTLAS([]Instance{
		{BLAS: blas, Pos: mgl32.Vec3{0, 0, 10}, Rot: mgl32.QuatIdent(), Scale: mgl32.Vec3{0, 0, 0}},
	})

	ray := qbvh.Ray{Origin: mgl32.Vec3{0, 0, 0}, Dir: mgl32.Vec3{0, 0, 1}, TMax: 1000}
	hit := TraceRayTLAS(tlas, ray)
	require.False(t, hit.Hit)
}

func TestShadeMissWritesZeroDepth(t *testing.T) {
	p := Shade(HitInfo{}, mgl32.Vec4{1, 1, 1, 1}, nil, false)
	require.Equal(t, float32(0), p.Depth)
	require.Equal(t, uint8(0), p.A)
}
