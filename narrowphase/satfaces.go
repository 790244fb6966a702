package narrowphase

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const minFloat32 = -math.MaxFloat32

// queryFaceDirections tests every face axis of ref: for each face
// of ref, find other's support point in -normal and measure the signed
// distance from ref's face plane. Returns the face with the largest
// (least-negative, closest-to-zero) separation.
func queryFaceDirections(ref, other *hullState) (bestSep float32, bestFace int) {
	bestSep = minFloat32
	for f, plane := range ref.faces {
		supportIdx := other.supportIndex(plane.Normal.Mul(-1))
		sep := plane.Normal.Dot(other.verts[supportIdx]) - plane.D
		if sep > bestSep {
			bestSep = sep
			bestFace = f
		}
	}
	return bestSep, bestFace
}

// edgeQueryResult is the outcome of queryEdgeDirections.
type edgeQueryResult struct {
	Axis       mgl32.Vec3
	Separation float32
	EdgeA      int
	EdgeB      int
	Found      bool
}

// queryEdgeDirections tests every pair
// of canonical edges whose normals form a Minkowski face (Gauss-map
// arc test), computing the candidate separating axis and tracking the
// best (largest) separation. An empty
// match set returns Found=false with Separation=-MaxFloat32; callers
// must treat that as "no edge axis" rather than reading Axis.
func queryEdgeDirections(a, b *hullState) edgeQueryResult {
	best := edgeQueryResult{Separation: minFloat32, Found: false}

	for ea := range a.mesh.CanonicalEdge {
		dirA := edgeDir(a, ea)
		faceA1, faceA2 := a.edgeFaceNormals(ea)
		for eb := range b.mesh.CanonicalEdge {
			dirB := edgeDir(b, eb)
			faceB1, faceB2 := b.edgeFaceNormals(eb)

			if !isMinkowskiFace(faceA1, faceA2, faceB1, faceB2) {
				continue
			}

			cross := dirA.Cross(dirB)
			if cross.Len() < 1e-6 {
				// Parallel edges never yield a valid axis.
				continue
			}
			axis := cross.Normalize()

			pA, _ := a.edgeWorld(ea)
			pB, _ := b.edgeWorld(eb)
			if axis.Dot(pA.Sub(a.center)) < 0 {
				axis = axis.Mul(-1)
			}
			sep := axis.Dot(pB.Sub(pA))

			if sep > best.Separation {
				best = edgeQueryResult{Axis: axis, Separation: sep, EdgeA: ea, EdgeB: eb, Found: true}
			}
		}
	}
	return best
}

func edgeDir(h *hullState, e int) mgl32.Vec3 {
	p0, p1 := h.edgeWorld(e)
	return p1.Sub(p0).Normalize()
}

// isMinkowskiFace is the Gauss-map arc test: edge-adjacent face
// normals (a,b) from hull A and (c,d) from hull B form a Minkowski
// face when their arcs on the Gauss map cross.
func isMinkowskiFace(a, b, c, d mgl32.Vec3) bool {
	bxa := b.Cross(a)
	cba := c.Dot(bxa)
	dba := d.Dot(bxa)

	dxc := d.Cross(c)
	adc := a.Dot(dxc)
	bdc := b.Dot(dxc)

	return cba*dba < 0 && adc*bdc < 0 && cba*bdc > 0
}
