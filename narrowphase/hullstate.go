package narrowphase

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-collide/geom"
	"github.com/gekko3d/gekko-collide/object"
)

// hullState is a hull's vertices and face planes transformed into
// world space once per pair: normals use
// R · S⁻¹ (renormalized), vertices use R · S.
type hullState struct {
	mesh    *geom.HalfEdgeMesh
	loc     object.EntityLocation
	verts   []mgl32.Vec3
	faces   []geom.FacePlane // world-space normal + D
	center  mgl32.Vec3
}

func buildHullState(mesh *geom.HalfEdgeMesh, loc object.EntityLocation) *hullState {
	scale := geom.NewDiag3x3(loc.Scale)
	invScale := scale.Inverse()

	verts := make([]mgl32.Vec3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		verts[i] = loc.Position.Add(loc.Rotation.Rotate(scale.MulVec3(v)))
	}

	faces := make([]geom.FacePlane, len(mesh.Faces))
	for f, local := range mesh.Faces {
		worldNormal := loc.Rotation.Rotate(invScale.MulVec3(local.Normal)).Normalize()
		anchor := verts[mesh.HalfEdges[mesh.FaceFirstEdge[f]].RootVertex]
		faces[f] = geom.FacePlane{Normal: worldNormal, D: worldNormal.Dot(anchor)}
	}

	return &hullState{mesh: mesh, loc: loc, verts: verts, faces: faces, center: loc.Position}
}

// faceVertices returns face f's ordered world-space vertices.
func (h *hullState) faceVertices(f int) []mgl32.Vec3 {
	start := h.mesh.FaceFirstEdge[f]
	var out []mgl32.Vec3
	cur := start
	for {
		out = append(out, h.verts[h.mesh.HalfEdges[cur].RootVertex])
		cur = h.mesh.HalfEdges[cur].Next
		if cur == start {
			break
		}
	}
	return out
}

// supportIndex returns the index of the vertex farthest along dir.
func (h *hullState) supportIndex(dir mgl32.Vec3) int {
	best := 0
	bestDot := h.verts[0].Dot(dir)
	for i := 1; i < len(h.verts); i++ {
		d := h.verts[i].Dot(dir)
		if d > bestDot {
			bestDot = d
			best = i
		}
	}
	return best
}

// edgeWorld returns the world-space endpoints of canonical edge e
// (indexed into mesh.CanonicalEdge).
func (h *hullState) edgeWorld(e int) (a, b mgl32.Vec3) {
	he := h.mesh.HalfEdges[h.mesh.CanonicalEdge[e]]
	twin := h.mesh.HalfEdges[he.Twin]
	return h.verts[he.RootVertex], h.verts[twin.RootVertex]
}

// edgeFaceNormals returns the two face normals adjoining canonical
// edge e (needed for the Gauss-map Minkowski-face test).
func (h *hullState) edgeFaceNormals(e int) (fa, fb mgl32.Vec3) {
	he := h.mesh.HalfEdges[h.mesh.CanonicalEdge[e]]
	twin := h.mesh.HalfEdges[he.Twin]
	return h.faces[he.Polygon].Normal, h.faces[twin.Polygon].Normal
}
