package geom

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// HalfEdge is one directed edge of a half-edge mesh. RootVertex is the
// vertex this half-edge originates from; Next walks around Polygon;
// Twin is the opposing half-edge of the same undirected edge.
type HalfEdge struct {
	RootVertex int
	Next       int
	Twin       int
	Polygon    int
}

// FacePlane is a face's supporting plane in local space.
type FacePlane struct {
	Normal mgl32.Vec3
	D      float32
}

// HalfEdgeMesh is an immutable convex-hull representation. Arrays are
// index-based; no pointer chasing.
//
// Invariants (checked by Validate, not on every traversal):
//   - HalfEdges[HalfEdges[e].Twin].Twin == e
//   - following .Next from e returns to e after exactly one face's worth
//     of edges
//   - .Polygon is identical for every half-edge of one face
type HalfEdgeMesh struct {
	Vertices      []mgl32.Vec3
	Faces         []FacePlane
	HalfEdges     []HalfEdge
	CanonicalEdge []int // one half-edge index per undirected edge
	FaceFirstEdge []int // face -> index into HalfEdges of its first edge
}

// NewHalfEdgeMesh builds a mesh value; callers are expected to have
// already produced a geometrically valid convex half-edge structure
// (e.g. via a hull-generation tool external to this core).
func NewHalfEdgeMesh(vertices []mgl32.Vec3, faces []FacePlane, halfEdges []HalfEdge, canonicalEdges []int, faceFirstEdge []int) *HalfEdgeMesh {
	return &HalfEdgeMesh{
		Vertices:      vertices,
		Faces:         faces,
		HalfEdges:     halfEdges,
		CanonicalEdge: canonicalEdges,
		FaceFirstEdge: faceFirstEdge,
	}
}

// Validate checks the three half-edge invariants above. It is
// intended for debug builds and tests, not the hot path.
func (m *HalfEdgeMesh) Validate() error {
	for i, he := range m.HalfEdges {
		if he.Twin < 0 || he.Twin >= len(m.HalfEdges) {
			return invalidHalfEdge(i, "twin index out of range")
		}
		if m.HalfEdges[he.Twin].Twin != i {
			return invalidHalfEdge(i, "twin.twin != self")
		}
		start := i
		cur := i
		steps := 0
		for {
			next := m.HalfEdges[cur].Next
			if m.HalfEdges[next].Polygon != he.Polygon {
				return invalidHalfEdge(i, "next.polygon != self.polygon")
			}
			cur = next
			steps++
			if cur == start {
				break
			}
			if steps > len(m.HalfEdges) {
				return invalidHalfEdge(i, "face traversal never returns to start")
			}
		}
	}
	return nil
}

func invalidHalfEdge(edge int, msg string) error {
	return fmt.Errorf("geom: half-edge invariant violated at edge %d: %s", edge, msg)
}

// FaceVertices returns the ordered vertex positions bounding face f.
func (m *HalfEdgeMesh) FaceVertices(f int) []mgl32.Vec3 {
	start := m.FaceFirstEdge[f]
	var out []mgl32.Vec3
	cur := start
	for {
		out = append(out, m.Vertices[m.HalfEdges[cur].RootVertex])
		cur = m.HalfEdges[cur].Next
		if cur == start {
			break
		}
	}
	return out
}

// FaceEdgeNormal returns the outward-pointing in-plane normal of the
// edge starting at half-edge e, given the face's plane normal: the
// same edge × faceNormal product the SAT clipper computes inline for
// the reference face's side planes.
func (m *HalfEdgeMesh) FaceEdgeNormal(e int, faceNormal mgl32.Vec3) mgl32.Vec3 {
	he := m.HalfEdges[e]
	a := m.Vertices[he.RootVertex]
	b := m.Vertices[m.HalfEdges[he.Next].RootVertex]
	edgeDir := b.Sub(a)
	return edgeDir.Cross(faceNormal)
}

// Support returns the hull vertex farthest along dir (world space
// caller must pass a world-space dir against world-space vertices).
func Support(vertices []mgl32.Vec3, dir mgl32.Vec3) (mgl32.Vec3, int) {
	best := 0
	bestDot := vertices[0].Dot(dir)
	for i := 1; i < len(vertices); i++ {
		d := vertices[i].Dot(dir)
		if d > bestDot {
			bestDot = d
			best = i
		}
	}
	return vertices[best], best
}
