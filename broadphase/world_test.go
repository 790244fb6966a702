package broadphase

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/gekko-collide/geom"
	"github.com/gekko3d/gekko-collide/object"
)

func sphereObjectManager(radius float32) *object.ObjectManager {
	box := geom.AABB{Min: mgl32.Vec3{-radius, -radius, -radius}, Max: mgl32.Vec3{radius, radius, radius}}
	return object.NewObjectManager([]object.ObjectEntry{
		{
			Primitives: []object.Primitive{object.NewSphere(radius)},
			LocalAABBs: []geom.AABB{box},
			AABB:       box,
			Mass:       1,
		},
	})
}

func identityLoc(pos mgl32.Vec3, resp object.ResponseType) object.EntityLocation {
	return object.EntityLocation{
		Position: pos,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
		Object:   0,
		Response: resp,
	}
}

// TestBroadphaseGridNoOverlap: 1000
// non-overlapping spheres on a grid yield zero candidate pairs.
func TestBroadphaseGridNoOverlap(t *testing.T) {
	objects := sphereObjectManager(0.4)
	w := NewWorld(objects, Config{MaxDynamicObjects: 1100, MaxCandidates: 10000})

	n := 0
	for x := 0; x < 10 && n < 1000; x++ {
		for y := 0; y < 10 && n < 1000; y++ {
			for z := 0; z < 10 && n < 1000; z++ {
				id := w.ReserveLeaf()
				w.SetEntity(id, identityLoc(mgl32.Vec3{float32(x) * 2, float32(y) * 2, float32(z) * 2}, object.Dynamic))
				n++
			}
		}
	}

	var pairs []CandidateCollision
	w.Step(func(c CandidateCollision) { pairs = append(pairs, c) })
	require.Empty(t, pairs)

	// Translate two entities to overlap; exactly one candidate appears.
	w.SetEntity(0, identityLoc(mgl32.Vec3{0, 0, 0}, object.Dynamic))
	w.SetEntity(1, identityLoc(mgl32.Vec3{0.1, 0, 0}, object.Dynamic))
	w.needsRebuild = true

	pairs = nil
	w.Step(func(c CandidateCollision) { pairs = append(pairs, c) })
	require.Len(t, pairs, 1)
}

// TestBroadphaseSkipsStaticPairs: pairs where
// both entities are Static are never emitted.
func TestBroadphaseSkipsStaticPairs(t *testing.T) {
	objects := sphereObjectManager(1)
	w := NewWorld(objects, Config{MaxDynamicObjects: 4, MaxCandidates: 100})

	a := w.ReserveLeaf()
	b := w.ReserveLeaf()
	w.SetEntity(a, identityLoc(mgl32.Vec3{0, 0, 0}, object.Static))
	w.SetEntity(b, identityLoc(mgl32.Vec3{0.5, 0, 0}, object.Static))

	var pairs []CandidateCollision
	w.Step(func(c CandidateCollision) { pairs = append(pairs, c) })
	require.Empty(t, pairs)
}

// TestBroadphaseCandidateCap exercises the cap-overflow failure mode:
// extras are dropped and counted, never panicking.
func TestBroadphaseCandidateCap(t *testing.T) {
	objects := sphereObjectManager(1)
	w := NewWorld(objects, Config{MaxDynamicObjects: 8, MaxCandidates: 1})

	for i := 0; i < 4; i++ {
		id := w.ReserveLeaf()
		w.SetEntity(id, identityLoc(mgl32.Vec3{0, 0, 0}, object.Dynamic))
	}

	var pairs []CandidateCollision
	w.Step(func(c CandidateCollision) { pairs = append(pairs, c) })
	require.Len(t, pairs, 1)
	require.Positive(t, w.DroppedCandidates)
}
