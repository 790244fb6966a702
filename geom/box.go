package geom

import "github.com/go-gl/mathgl/mgl32"

// NewBoxHalfEdgeMesh builds the half-edge mesh of an axis-aligned box
// centered at the origin with the given half-extents, CCW-wound per
// face as BuildHalfEdgeMesh requires.
func NewBoxHalfEdgeMesh(half mgl32.Vec3) (*HalfEdgeMesh, error) {
	x, y, z := half.X(), half.Y(), half.Z()
	vertices := []mgl32.Vec3{
		{-x, -y, -z}, // 0
		{x, -y, -z},  // 1
		{x, y, -z},   // 2
		{-x, y, -z},  // 3
		{-x, -y, z},  // 4
		{x, -y, z},   // 5
		{x, y, z},    // 6
		{-x, y, z},   // 7
	}
	faces := [][]int{
		{0, 3, 2, 1}, // -Z
		{4, 5, 6, 7}, // +Z
		{0, 4, 7, 3}, // -X
		{1, 2, 6, 5}, // +X
		{0, 1, 5, 4}, // -Y
		{3, 7, 6, 2}, // +Y
	}
	return BuildHalfEdgeMesh(vertices, faces)
}
