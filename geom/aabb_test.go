package geom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func TestAABBOverlapsAndUnion(t *testing.T) {
	a := AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}
	b := AABB{Min: mgl32.Vec3{0.5, 0.5, 0.5}, Max: mgl32.Vec3{2, 2, 2}}
	require.True(t, a.Overlaps(b))

	c := AABB{Min: mgl32.Vec3{5, 5, 5}, Max: mgl32.Vec3{6, 6, 6}}
	require.False(t, a.Overlaps(c))

	u := a.Union(c)
	require.Equal(t, mgl32.Vec3{0, 0, 0}, u.Min)
	require.Equal(t, mgl32.Vec3{6, 6, 6}, u.Max)
}

// TestAABBTRSMonotonicity: every
// transformed corner of B must lie inside ApplyTRS(B, t, R, S).
func TestAABBTRSMonotonicity(t *testing.T) {
	box := AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	pos := mgl32.Vec3{3, -2, 5}
	rot := mgl32.QuatRotate(mgl32.DegToRad(37), mgl32.Vec3{0.3, 0.7, 0.1}.Normalize())
	scale := mgl32.Vec3{1.5, 0.5, 2.0}

	transformed := box.ApplyTRS(pos, rot, scale)

	for _, c := range box.Corners() {
		scaled := mgl32.Vec3{c.X() * scale.X(), c.Y() * scale.Y(), c.Z() * scale.Z()}
		world := pos.Add(rot.Rotate(scaled))
		require.True(t, world.X() >= transformed.Min.X()-1e-4 && world.X() <= transformed.Max.X()+1e-4)
		require.True(t, world.Y() >= transformed.Min.Y()-1e-4 && world.Y() <= transformed.Max.Y()+1e-4)
		require.True(t, world.Z() >= transformed.Min.Z()-1e-4 && world.Z() <= transformed.Max.Z()+1e-4)
	}
}

func TestAABBExpand(t *testing.T) {
	box := AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}
	grown := box.Expand(0.1)
	require.InDelta(t, -0.1, grown.Min.X(), 1e-6)
	require.InDelta(t, 1.1, grown.Max.X(), 1e-6)
}
