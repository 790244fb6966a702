package narrowphase

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-collide/geom"
	"github.com/gekko3d/gekko-collide/object"
)

// hullHull is the full SAT hull-vs-hull handler: two face-direction
// queries, an edge-direction query, then a face or edge contact
// depending on which axis separates least.
func hullHull(a object.EntityLocation, meshA *geom.HalfEdgeMesh, b object.EntityLocation, meshB *geom.HalfEdgeMesh) (Manifold, bool) {
	hsA := buildHullState(meshA, a)
	hsB := buildHullState(meshB, b)

	faceSepA, faceA := queryFaceDirections(hsA, hsB)
	if faceSepA > 0 {
		return Manifold{}, false
	}
	faceSepB, faceB := queryFaceDirections(hsB, hsA)
	if faceSepB > 0 {
		return Manifold{}, false
	}

	edge := queryEdgeDirections(hsA, hsB)
	if edge.Found && edge.Separation > 0 {
		return Manifold{}, false
	}

	faceBest := faceSepA
	faceIsA := true
	if faceSepB > faceSepA {
		faceBest = faceSepB
		faceIsA = false
	}

	if !edge.Found || faceBest > edge.Separation {
		if faceIsA {
			return createFaceContact(hsA, faceA, hsB, true)
		}
		return createFaceContact(hsB, faceB, hsA, false)
	}

	return createEdgeContact(hsA, hsB, edge)
}

// hullPlane queries the hull's support point
// against the plane; if separation > 0, no contact.
// Otherwise find the incident hull face, project its vertices below
// the plane onto it, depth = distance below.
func hullPlane(hull object.EntityLocation, mesh *geom.HalfEdgeMesh, plane object.EntityLocation) (Manifold, bool) {
	hs := buildHullState(mesh, hull)
	normal := plane.Rotation.Rotate(mgl32.Vec3{0, 0, 1})
	d := normal.Dot(plane.Position)

	support := hs.supportIndex(normal.Mul(-1))
	sep := normal.Dot(hs.verts[support]) - d
	if sep > 0 {
		return Manifold{}, false
	}

	incidentFace := mostAntiAlignedFace(hs, normal)
	verts := hs.faceVertices(incidentFace)

	var points []ContactPoint
	for _, v := range verts {
		signed := normal.Dot(v) - d
		if signed > 0 {
			continue
		}
		projected := v.Sub(normal.Mul(signed))
		points = append(points, ContactPoint{Position: projected, Depth: -signed})
	}
	if len(points) == 0 {
		return Manifold{}, false
	}

	m := Manifold{Normal: normal, AIsReference: false}
	m.Points = reduceToFour(points, normal)
	m.NumPoints = len(points)
	if m.NumPoints > 4 {
		m.NumPoints = 4
	}
	return m, true
}

// mostAntiAlignedFace returns the face of hs whose normal is most
// anti-aligned with dir, i.e. the incident face for a reference normal.
func mostAntiAlignedFace(hs *hullState, dir mgl32.Vec3) int {
	best := 0
	bestDot := hs.faces[0].Normal.Dot(dir)
	for i := 1; i < len(hs.faces); i++ {
		d := hs.faces[i].Normal.Dot(dir)
		if d < bestDot {
			bestDot = d
			best = i
		}
	}
	return best
}

// createFaceContact picks refHull's
// refFace as reference, finds the incident face on the other hull,
// clip its vertices against the reference face's side planes, keep
// those behind the reference plane, project onto it, and reduce to
// at most 4 points. aIsRef tells the caller whether refHull was hull A.
func createFaceContact(refHull *hullState, refFace int, otherHull *hullState, aIsRef bool) (Manifold, bool) {
	refPlane := refHull.faces[refFace]
	refVerts := refHull.faceVertices(refFace)

	incidentFace := mostAntiAlignedFace(otherHull, refPlane.Normal)
	incidentVerts := otherHull.faceVertices(incidentFace)

	points := clipIncidentFace(incidentVerts, refVerts, refPlane.Normal, refPlane.D)
	if len(points) == 0 {
		return Manifold{}, false
	}

	m := Manifold{Normal: refPlane.Normal, AIsReference: aIsRef}
	m.Points = reduceToFour(points, refPlane.Normal)
	m.NumPoints = len(points)
	if m.NumPoints > 4 {
		m.NumPoints = 4
	}
	return m, true
}

// createEdgeContact takes the shortest
// segment between the two edges (parameters clamped to [0,1]); the
// contact point is the segment midpoint, depth is half its length,
// normal is the edge query's axis. A always owns the reference side.
func createEdgeContact(hsA, hsB *hullState, edge edgeQueryResult) (Manifold, bool) {
	a0, a1 := hsA.edgeWorld(edge.EdgeA)
	b0, b1 := hsB.edgeWorld(edge.EdgeB)

	pa, pb := closestPointsOnSegments(a0, a1, b0, b1)
	mid := pa.Add(pb).Mul(0.5)
	depth := pb.Sub(pa).Len() / 2

	m := Manifold{Normal: edge.Axis, NumPoints: 1, AIsReference: true}
	m.Points[0] = ContactPoint{Position: mid, Depth: depth}
	return m, true
}

// closestPointsOnSegments returns the closest points between segments
// p1-q1 and p2-q2, clamping both parameters to [0,1].
func closestPointsOnSegments(p1, q1, p2, q2 mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)

	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float32
	if a <= geom.NearZero && e <= geom.NearZero {
		return p1, p2
	}
	if a <= geom.NearZero {
		s = 0
		t = clamp01(f / e)
	} else {
		c := d1.Dot(r)
		if e <= geom.NearZero {
			t = 0
			s = clamp01(-c / a)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom != 0 {
				s = clamp01((b*f - c*e) / denom)
			} else {
				s = 0
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clamp01(-c / a)
			} else if t > 1 {
				t = 1
				s = clamp01((b - c) / a)
			}
		}
	}
	closest1 := p1.Add(d1.Mul(s))
	closest2 := p2.Add(d2.Mul(t))
	return closest1, closest2
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
