package geom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func TestNewBoxHalfEdgeMeshValid(t *testing.T) {
	mesh, err := NewBoxHalfEdgeMesh(mgl32.Vec3{0.5, 0.5, 0.5})
	require.NoError(t, err)
	require.NoError(t, mesh.Validate())
	require.Len(t, mesh.Faces, 6)
	require.Len(t, mesh.HalfEdges, 24)
	require.Len(t, mesh.CanonicalEdge, 12)

	for i, he := range mesh.HalfEdges {
		require.Equal(t, i, mesh.HalfEdges[he.Twin].Twin)
	}
}

func TestNewBoxHalfEdgeMeshFaceNormals(t *testing.T) {
	mesh, err := NewBoxHalfEdgeMesh(mgl32.Vec3{1, 1, 1})
	require.NoError(t, err)

	expected := map[int]mgl32.Vec3{
		0: {0, 0, -1},
		1: {0, 0, 1},
		2: {-1, 0, 0},
		3: {1, 0, 0},
		4: {0, -1, 0},
		5: {0, 1, 0},
	}
	for f, n := range expected {
		require.InDelta(t, n.X(), mesh.Faces[f].Normal.X(), 1e-5)
		require.InDelta(t, n.Y(), mesh.Faces[f].Normal.Y(), 1e-5)
		require.InDelta(t, n.Z(), mesh.Faces[f].Normal.Z(), 1e-5)
	}
}
