package narrowphase

import (
	"fmt"

	"github.com/gekko3d/gekko-collide/broadphase"
	"github.com/gekko3d/gekko-collide/object"
)

// Dispatch normalizes a candidate pair by canonical primitive-type
// order (Sphere < Hull < Plane), recomputes world AABBs
// as a defensive gate, and routes to the matching handler. Returns
// (manifold, entityA, entityB, true) on contact; (zero, _, _, false)
// on a geometric miss.
func Dispatch(objects *object.ObjectManager, pair broadphase.CandidateCollision) (Manifold, object.EntityLocation, object.EntityLocation, bool) {
	a, b := pair.A, pair.B
	primA := &objects.Entry(a.Object).Primitives[pair.PrimitiveA]
	primB := &objects.Entry(b.Object).Primitives[pair.PrimitiveB]

	// AABB gate: defensive re-check: the broad-phase should already
	// have filtered non-overlapping pairs.
	if !objects.WorldAABB(a).Overlaps(objects.WorldAABB(b)) {
		return Manifold{}, a, b, false
	}

	if primA.Kind > primB.Kind {
		a, b = b, a
		primA, primB = primB, primA
	}

	var m Manifold
	var hit bool
	switch {
	case primA.Kind == object.KindSphere && primB.Kind == object.KindSphere:
		m, hit = sphereSphere(a, primA.Radius, b, primB.Radius)
	case primA.Kind == object.KindSphere && primB.Kind == object.KindHull:
		m, hit = sphereHull(a, primA.Radius, b, primB.Hull)
	case primA.Kind == object.KindSphere && primB.Kind == object.KindPlane:
		m, hit = spherePlane(a, primA.Radius, b)
	case primA.Kind == object.KindHull && primB.Kind == object.KindHull:
		m, hit = hullHull(a, primA.Hull, b, primB.Hull)
	case primA.Kind == object.KindHull && primB.Kind == object.KindPlane:
		m, hit = hullPlane(a, primA.Hull, b)
	case primA.Kind == object.KindPlane && primB.Kind == object.KindPlane:
		// Planes are static; this pair is an invariant violation.
		panic(fmt.Errorf("narrowphase: Plane-Plane candidate pair is an invariant violation (entities %+v, %+v)", a, b))
	default:
		panic(fmt.Errorf("narrowphase: unhandled primitive pair (%d,%d)", primA.Kind, primB.Kind))
	}
	return m, a, b, hit
}
