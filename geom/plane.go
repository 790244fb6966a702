package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Plane is an infinite plane in Hessian normal form: Normal·x - D = 0.
type Plane struct {
	Normal mgl32.Vec3
	D      float32
}

func NewPlane(normal mgl32.Vec3, d float32) Plane {
	return Plane{Normal: normal, D: d}
}

// PlaneFromPointNormal builds a plane passing through point with the
// given (assumed unit) normal.
func PlaneFromPointNormal(point, normal mgl32.Vec3) Plane {
	return Plane{Normal: normal, D: normal.Dot(point)}
}

// SignedDistance returns the signed distance from point to the plane;
// positive on the side the normal points toward.
func (p Plane) SignedDistance(point mgl32.Vec3) float32 {
	return p.Normal.Dot(point) - p.D
}

// AreParallel reports whether two (assumed unit) vectors are parallel
// within the fixed tolerance: | |a·b| − 1 | < 1e-4.
func AreParallel(a, b mgl32.Vec3) bool {
	d := float64(a.Dot(b))
	return math.Abs(math.Abs(d)-1) < ParallelTolerance
}

// PlaneIntersection returns the point on segment p1->p2 where it
// crosses the plane's zero level. Assumes the segment is not parallel
// to the plane; a near-zero denominator is clamped to DegenerateDenom
// rather than producing Inf/NaN.
func (p Plane) PlaneIntersection(p1, p2 mgl32.Vec3) mgl32.Vec3 {
	d1 := p.SignedDistance(p1)
	d2 := p.SignedDistance(p2)
	denom := d1 - d2
	if float32(math.Abs(float64(denom))) < DegenerateDenom {
		if denom < 0 {
			denom = -DegenerateDenom
		} else {
			denom = DegenerateDenom
		}
	}
	t := d1 / denom
	return p1.Add(p2.Sub(p1).Mul(t))
}
