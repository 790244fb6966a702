package geom

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// BuildHalfEdgeMesh derives the half-edge structure (twins, per-face
// next links, canonical edges) from a vertex list and a set of
// CCW-wound (viewed from outside), planar, convex faces. A real asset
// importer hands the core fully-formed meshes; this builder covers
// simple primitive hulls (boxes, wedges) and tests.
func BuildHalfEdgeMesh(vertices []mgl32.Vec3, faces [][]int) (*HalfEdgeMesh, error) {
	type key struct{ a, b int }

	halfEdges := make([]HalfEdge, 0, countEdges(faces))
	faceFirstEdge := make([]int, len(faces))
	byPair := make(map[key]int)

	for f, face := range faces {
		start := len(halfEdges)
		faceFirstEdge[f] = start
		n := len(face)
		for i := 0; i < n; i++ {
			halfEdges = append(halfEdges, HalfEdge{
				RootVertex: face[i],
				Polygon:    f,
			})
		}
		for i := 0; i < n; i++ {
			halfEdges[start+i].Next = start + (i+1)%n
			byPair[key{face[i], face[(i+1)%n]}] = start + i
		}
	}

	for i, he := range halfEdges {
		next := halfEdges[he.Next].RootVertex
		twin, ok := byPair[key{next, he.RootVertex}]
		if !ok {
			return nil, fmt.Errorf("geom: half-edge %d (verts %d->%d) has no twin; mesh is not closed", i, he.RootVertex, next)
		}
		halfEdges[i].Twin = twin
	}

	canonical := make([]int, 0, len(halfEdges)/2)
	seen := make(map[int]bool, len(halfEdges))
	for i, he := range halfEdges {
		if seen[i] {
			continue
		}
		seen[i] = true
		seen[he.Twin] = true
		canonical = append(canonical, i)
	}

	facePlanes := make([]FacePlane, len(faces))
	for f, face := range faces {
		p0, p1, p2 := vertices[face[0]], vertices[face[1]], vertices[face[2]]
		normal := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
		facePlanes[f] = FacePlane{Normal: normal, D: normal.Dot(p0)}
	}

	mesh := NewHalfEdgeMesh(vertices, facePlanes, halfEdges, canonical, faceFirstEdge)
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	return mesh, nil
}

func countEdges(faces [][]int) int {
	n := 0
	for _, f := range faces {
		n += len(f)
	}
	return n
}
