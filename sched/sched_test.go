package sched

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/gekko-collide/broadphase"
	"github.com/gekko3d/gekko-collide/geom"
	"github.com/gekko3d/gekko-collide/narrowphase"
	"github.com/gekko3d/gekko-collide/object"
	"github.com/gekko3d/gekko-collide/qbvh"
	"github.com/gekko3d/gekko-collide/raytrace"
)

func twoSphereObjects(radius float32) *object.ObjectManager {
	box := geom.AABB{Min: mgl32.Vec3{-radius, -radius, -radius}, Max: mgl32.Vec3{radius, radius, radius}}
	entry := object.ObjectEntry{
		Primitives: []object.Primitive{object.NewSphere(radius)},
		LocalAABBs: []geom.AABB{box},
		AABB:       box,
		Mass:       1,
	}
	return object.NewObjectManager([]object.ObjectEntry{entry})
}

func locAt(pos mgl32.Vec3) object.EntityLocation {
	return object.EntityLocation{
		Position: pos,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
		Object:   0,
		Response: object.Dynamic,
	}
}

// TestBroadphaseToNarrowphaseGraph runs the broad-phase and
// narrow-phase nodes back to back over two overlapping spheres and
// checks a contact reaches the shared buffer, exercising the
// dependency-ordered task-graph wiring end to end.
func TestBroadphaseToNarrowphaseGraph(t *testing.T) {
	objects := twoSphereObjects(1)
	world := broadphase.NewWorld(objects, broadphase.Config{MaxDynamicObjects: 4, MaxCandidates: 16})

	a := world.ReserveLeaf()
	b := world.ReserveLeaf()
	world.SetEntity(a, locAt(mgl32.Vec3{0, 0, 0}))
	world.SetEntity(b, locAt(mgl32.Vec3{1.5, 0, 0}))

	buf := narrowphase.NewContactBuffer(narrowphase.Config{MaxContacts: 16})

	builder := NewBuilder()
	bpNode, sink := SetupBroadphase(builder, world, nil, nil)
	npNode := SetupNarrowphase(builder, bpNode, sink, objects, buf, nil)

	require.Len(t, npNode.Deps(), 1)
	builder.RunTopological()

	require.Equal(t, 1, buf.Count())
	require.InDelta(t, 0.25, buf.Contacts()[0].Points[0].W(), 1e-3)
}

// TestRunTopologicalPanicsOnOutOfOrderDependency guards the
// dependency check itself: a node run before its declared dependency
// must panic rather than silently produce garbage.
func TestRunTopologicalPanicsOnOutOfOrderDependency(t *testing.T) {
	upstream := &Node{Name: "upstream", run: func() {}}
	b := NewBuilder()
	b.Node("downstream", []*Node{upstream}, func() {})

	require.Panics(t, func() { b.RunTopological() })
}

func TestSetupRaytraceTracesAllTiles(t *testing.T) {
	tris := []raytrace.Triangle{
		{
			V0: mgl32.Vec3{-1, -1, 0}, V1: mgl32.Vec3{1, -1, 0}, V2: mgl32.Vec3{1, 1, 0},
			UV0: mgl32.Vec2{0, 0}, UV1: mgl32.Vec2{1, 0}, UV2: mgl32.Vec2{1, 1},
		},
	}
	blas := raytrace.NewMeshBVH(tris)
	tlas := raytrace.NewTLAS([]raytrace.Instance{
		{BLAS: blas, Pos: mgl32.Vec3{0, 0, 5}, Rot: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}},
	})

	pixels := make([][]raytrace.Pixel, 2)
	for i := range pixels {
		pixels[i] = make([]raytrace.Pixel, 2)
	}

	tile := ViewTile{
		X0: 0, Y0: 0, X1: 2, Y1: 2,
		RayAt: func(x, y int) qbvh.Ray {
			return qbvh.Ray{Origin: mgl32.Vec3{0, 0, 0}, Dir: mgl32.Vec3{0, 0, 1}, TMax: 100}
		},
		WritePixel: func(x, y int, p raytrace.Pixel) { pixels[y][x] = p },
		BaseColor:  mgl32.Vec4{1, 1, 1, 1},
	}

	builder := NewBuilder()
	node := SetupRaytrace(builder, nil, tlas, []ViewTile{tile}, nil)
	builder.RunTopological()
	require.NotNil(t, node)

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			require.True(t, pixels[y][x].A == 255, "expected tile pixel (%d,%d) to hit", x, y)
		}
	}
}
