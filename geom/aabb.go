package geom

import "github.com/go-gl/mathgl/mgl32"

// AABB is an axis-aligned bounding box with pMin <= pMax componentwise.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

func NewAABB(min, max mgl32.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Overlaps reports whether two AABBs intersect, inclusive of touching faces.
func (a AABB) Overlaps(b AABB) bool {
	return a.Min.X() <= b.Max.X() && a.Max.X() >= b.Min.X() &&
		a.Min.Y() <= b.Max.Y() && a.Max.Y() >= b.Min.Y() &&
		a.Min.Z() <= b.Max.Z() && a.Max.Z() >= b.Min.Z()
}

// Union returns the smallest AABB enclosing both inputs.
func (a AABB) Union(b AABB) AABB {
	return AABB{
		Min: mgl32.Vec3{min3(a.Min.X(), b.Min.X()), min3(a.Min.Y(), b.Min.Y()), min3(a.Min.Z(), b.Min.Z())},
		Max: mgl32.Vec3{max3(a.Max.X(), b.Max.X()), max3(a.Max.Y(), b.Max.Y()), max3(a.Max.Z(), b.Max.Z())},
	}
}

// Center returns the AABB's midpoint.
func (a AABB) Center() mgl32.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// Expand grows the box by a fixed margin on every axis (used by the
// broad-phase to absorb a frame's worth of motion).
func (a AABB) Expand(margin float32) AABB {
	m := mgl32.Vec3{margin, margin, margin}
	return AABB{Min: a.Min.Sub(m), Max: a.Max.Add(m)}
}

// ApplyTRS transforms the AABB by a translation/rotation/scale and
// returns the AABB of the eight transformed corners. This is
// deliberately NOT the minimal enclosing box of the rotated box: every
// transformed corner of the original box lands inside the result.
func (a AABB) ApplyTRS(pos mgl32.Vec3, rot mgl32.Quat, scale mgl32.Vec3) AABB {
	corners := a.Corners()
	first := true
	var out AABB
	for _, c := range corners {
		scaled := mgl32.Vec3{c.X() * scale.X(), c.Y() * scale.Y(), c.Z() * scale.Z()}
		world := pos.Add(rot.Rotate(scaled))
		if first {
			out = AABB{Min: world, Max: world}
			first = false
		} else {
			out.Min = mgl32.Vec3{min3(out.Min.X(), world.X()), min3(out.Min.Y(), world.Y()), min3(out.Min.Z(), world.Z())}
			out.Max = mgl32.Vec3{max3(out.Max.X(), world.X()), max3(out.Max.Y(), world.Y()), max3(out.Max.Z(), world.Z())}
		}
	}
	return out
}

// Corners returns the eight corners of the box in a fixed order.
func (a AABB) Corners() [8]mgl32.Vec3 {
	return [8]mgl32.Vec3{
		{a.Min.X(), a.Min.Y(), a.Min.Z()},
		{a.Min.X(), a.Min.Y(), a.Max.Z()},
		{a.Min.X(), a.Max.Y(), a.Min.Z()},
		{a.Min.X(), a.Max.Y(), a.Max.Z()},
		{a.Max.X(), a.Min.Y(), a.Min.Z()},
		{a.Max.X(), a.Min.Y(), a.Max.Z()},
		{a.Max.X(), a.Max.Y(), a.Min.Z()},
		{a.Max.X(), a.Max.Y(), a.Max.Z()},
	}
}

// Contains reports whether b lies entirely within a.
func (a AABB) Contains(b AABB) bool {
	return a.Min.X() <= b.Min.X() && a.Max.X() >= b.Max.X() &&
		a.Min.Y() <= b.Min.Y() && a.Max.Y() >= b.Max.Y() &&
		a.Min.Z() <= b.Min.Z() && a.Max.Z() >= b.Max.Z()
}

// LongestAxis returns 0/1/2 for X/Y/Z, whichever extent is largest.
func (a AABB) LongestAxis() int {
	extent := a.Max.Sub(a.Min)
	axis := 0
	if extent.Y() > extent[axis] {
		axis = 1
	}
	if extent.Z() > extent[axis] {
		axis = 2
	}
	return axis
}

func min3(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max3(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
