package narrowphase

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-collide/geom"
)

// clipAgainstPlane is one Sutherland-Hodgman pass: points with
// SignedDistance <= 0 are kept, edges crossing the plane are cut at
// their intersection.
func clipAgainstPlane(poly []mgl32.Vec3, plane geom.Plane) []mgl32.Vec3 {
	if len(poly) == 0 {
		return nil
	}
	var out []mgl32.Vec3
	n := len(poly)
	for i := 0; i < n; i++ {
		cur := poly[i]
		next := poly[(i+1)%n]
		curIn := plane.SignedDistance(cur) <= 0
		nextIn := plane.SignedDistance(next) <= 0
		if curIn {
			out = append(out, cur)
		}
		if curIn != nextIn {
			out = append(out, plane.PlaneIntersection(cur, next))
		}
	}
	return out
}

// clipIncidentFace runs the Sutherland-Hodgman
// clip: the incident polygon is cut against each side plane of the
// reference face (plane normals edge × refNormal, plane-d from the
// edge's root vertex), then filtered to points behind the reference
// plane and projected onto it, with depth = -signedDistance.
func clipIncidentFace(incident []mgl32.Vec3, refVerts []mgl32.Vec3, refNormal mgl32.Vec3, refPlaneD float32) []ContactPoint {
	poly := incident
	n := len(refVerts)
	for i := 0; i < n; i++ {
		a := refVerts[i]
		b := refVerts[(i+1)%n]
		sideNormal := b.Sub(a).Cross(refNormal)
		sidePlane := geom.Plane{Normal: sideNormal, D: sideNormal.Dot(a)}
		poly = clipAgainstPlane(poly, sidePlane)
		if len(poly) == 0 {
			return nil
		}
	}

	refPlane := geom.Plane{Normal: refNormal, D: refPlaneD}
	var out []ContactPoint
	for _, p := range poly {
		signed := refPlane.SignedDistance(p)
		if signed > 0 {
			continue
		}
		projected := p.Sub(refNormal.Mul(signed))
		out = append(out, ContactPoint{Position: projected, Depth: -signed})
	}
	return out
}

// reduceToFour trims an oversized contact set to the four points that
// best preserve the patch: an arbitrary first point, the one farthest
// from it, the one maximizing signed triangle area with those two, and
// the one minimizing that signed area. Removal swap-removes so no
// surviving candidate is ever lost.
func reduceToFour(points []ContactPoint, planeNormal mgl32.Vec3) [4]ContactPoint {
	if len(points) <= 4 {
		var out [4]ContactPoint
		copy(out[:], points)
		return out
	}

	remaining := make([]ContactPoint, len(points))
	copy(remaining, points)

	var kept [4]ContactPoint
	kept[0] = remaining[0]
	removeAt(&remaining, 0)

	farIdx, farDist := 0, float32(-1)
	for i, p := range remaining {
		diff := p.Position.Sub(kept[0].Position)
		d := diff.Dot(diff)
		if d > farDist {
			farDist = d
			farIdx = i
		}
	}
	kept[1] = remaining[farIdx]
	removeAt(&remaining, farIdx)

	maxIdx, maxArea := 0, float32(minFloat32)
	for i, p := range remaining {
		area := signedArea(planeNormal, kept[0].Position, kept[1].Position, p.Position)
		if area > maxArea {
			maxArea = area
			maxIdx = i
		}
	}
	kept[2] = remaining[maxIdx]
	removeAt(&remaining, maxIdx)

	minIdx, minArea := 0, float32(-minFloat32)
	for i, p := range remaining {
		area := signedArea(planeNormal, kept[0].Position, kept[1].Position, p.Position)
		if area < minArea {
			minArea = area
			minIdx = i
		}
	}
	kept[3] = remaining[minIdx]
	removeAt(&remaining, minIdx)

	return kept
}

// removeAt swap-removes index i from *s.
func removeAt(s *[]ContactPoint, i int) {
	last := len(*s) - 1
	(*s)[i] = (*s)[last]
	*s = (*s)[:last]
}

// signedArea is twice the signed area of triangle (a,b,c) projected
// along planeNormal.
func signedArea(planeNormal, a, b, c mgl32.Vec3) float32 {
	return planeNormal.Dot(b.Sub(a).Cross(c.Sub(a)))
}
