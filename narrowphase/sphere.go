package narrowphase

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-collide/geom"
	"github.com/gekko3d/gekko-collide/object"
)

// sphereSphere reports contact when
// the center distance is in (0, rA+rB); normal points B-from-A; single
// contact point at the midpoint; depth halves the overlap.
func sphereSphere(a object.EntityLocation, rA float32, b object.EntityLocation, rB float32) (Manifold, bool) {
	delta := b.Position.Sub(a.Position)
	d := delta.Len()
	if d <= 0 || d >= rA+rB {
		return Manifold{}, false
	}
	normal := delta.Mul(1 / d)
	depth := (rA + rB - d) / 2
	point := a.Position.Add(b.Position).Mul(0.5)
	m := Manifold{Normal: normal, NumPoints: 1, AIsReference: true}
	m.Points[0] = ContactPoint{Position: point, Depth: depth}
	return m, true
}

// spherePlane tests a sphere against an infinite plane. The plane's
// canonical normal is rot·(0,0,1); offset d = normal·posPlane.
func spherePlane(sphere object.EntityLocation, r float32, plane object.EntityLocation) (Manifold, bool) {
	normal := plane.Rotation.Rotate(mgl32.Vec3{0, 0, 1})
	d := normal.Dot(plane.Position)
	t := normal.Dot(sphere.Position) - d
	depth := r - t
	if depth <= 0 {
		return Manifold{}, false
	}
	point := sphere.Position.Sub(normal.Mul(t))
	m := Manifold{Normal: normal, NumPoints: 1, AIsReference: true}
	m.Points[0] = ContactPoint{Position: point, Depth: depth}
	return m, true
}

// sphereHull runs a face-SAT
// separating-axis test (exact for the hull's face normals, since a
// sphere's support along any axis is its center ± radius) followed by
// a closest-point-on-reference-face clamp, the same shape as the
// hull-plane handler's single-face projection.
func sphereHull(sphere object.EntityLocation, r float32, hull object.EntityLocation, mesh *geom.HalfEdgeMesh) (Manifold, bool) {
	hs := buildHullState(mesh, hull)

	bestSep := -mgl32Inf()
	bestFace := -1
	for f, plane := range hs.faces {
		sep := plane.Normal.Dot(sphere.Position) - plane.D - r
		if sep > bestSep {
			bestSep = sep
			bestFace = f
		}
	}
	if bestSep > 0 {
		return Manifold{}, false
	}

	plane := hs.faces[bestFace]
	verts := hs.faceVertices(bestFace)
	closest := closestPointOnConvexFace(verts, plane.Normal, sphere.Position)

	diff := sphere.Position.Sub(closest)
	dist := diff.Len()
	var normal mgl32.Vec3
	if dist > geom.NearZero {
		normal = diff.Mul(1 / dist)
	} else {
		normal = plane.Normal
	}
	depth := r - dist
	if depth <= 0 {
		return Manifold{}, false
	}
	point := sphere.Position.Sub(normal.Mul(r))
	m := Manifold{Normal: normal, NumPoints: 1, AIsReference: false}
	m.Points[0] = ContactPoint{Position: point, Depth: depth}
	return m, true
}

// closestPointOnConvexFace projects point onto the face plane then
// clamps it against each edge's outward in-plane normal, using the
// nearest violated edge's closest segment point when the projection
// lies outside the polygon.
func closestPointOnConvexFace(verts []mgl32.Vec3, normal mgl32.Vec3, point mgl32.Vec3) mgl32.Vec3 {
	d := normal.Dot(verts[0])
	proj := point.Sub(normal.Mul(normal.Dot(point) - d))

	best := proj
	bestDistSq := float32(-1)
	for i := range verts {
		v0 := verts[i]
		v1 := verts[(i+1)%len(verts)]
		edgeDir := v1.Sub(v0)
		edgeNormal := edgeDir.Cross(normal)
		if edgeNormal.Dot(proj.Sub(v0)) > 0 {
			c := closestPointOnSegment(proj, v0, v1)
			diff := c.Sub(proj)
			if distSq := diff.Dot(diff); bestDistSq < 0 || distSq < bestDistSq {
				best, bestDistSq = c, distSq
			}
		}
	}
	return best
}

func closestPointOnSegment(p, a, b mgl32.Vec3) mgl32.Vec3 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq < geom.NearZero {
		return a
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return a.Add(ab.Mul(t))
}

func mgl32Inf() float32 {
	return 3.4e38
}
