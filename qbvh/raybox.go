package qbvh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a world-space ray with a bounded parameter range; tMax caps
// the hit search distance.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
	TMax   float32
}

// InvDir computes 1/Dir componentwise, replacing a zero divisor with a
// sign-preserving large value (copysign(1e5, d)) so the slab test never
// divides by zero.
func (r Ray) InvDir() mgl32.Vec3 {
	return mgl32.Vec3{safeInv(r.Dir.X()), safeInv(r.Dir.Y()), safeInv(r.Dir.Z())}
}

func safeInv(d float32) float32 {
	if d == 0 {
		return float32(math.Copysign(1e5, float64(d)))
	}
	return 1 / d
}

// SlabTest is the ray-box slab intersection:
// tNear = max(min(tx0,tx1), min(ty0,ty1), min(tz0,tz1), 0)
// tFar  = min(max(tx0,tx1), max(ty0,ty1), max(tz0,tz1), tMax)
// hit when tNear <= tFar.
func SlabTest(origin, invDir mgl32.Vec3, tMax float32, min, max mgl32.Vec3) (tNear, tFar float32, hit bool) {
	tx0 := (min.X() - origin.X()) * invDir.X()
	tx1 := (max.X() - origin.X()) * invDir.X()
	ty0 := (min.Y() - origin.Y()) * invDir.Y()
	ty1 := (max.Y() - origin.Y()) * invDir.Y()
	tz0 := (min.Z() - origin.Z()) * invDir.Z()
	tz1 := (max.Z() - origin.Z()) * invDir.Z()

	tNear = maxf(maxf(minf(tx0, tx1), minf(ty0, ty1)), maxf(minf(tz0, tz1), 0))
	tFar = minf(minf(maxf(tx0, tx1), maxf(ty0, ty1)), minf(maxf(tz0, tz1), tMax))
	hit = tNear <= tFar
	return
}

// ChildSlabTest tests ray r against slot i of node n by dequantizing
// the child's bounds via the node's minPoint/exponents and running
// SlabTest.
func ChildSlabTest(n *Node, i int, r Ray, invDir mgl32.Vec3) (tNear, tFar float32, hit bool) {
	box := n.DequantizeChildAABB(i)
	return SlabTest(r.Origin, invDir, r.TMax, box.Min, box.Max)
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
