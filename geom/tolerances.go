// Package geom provides the AABB, plane and half-edge-mesh primitives
// shared by the broad-phase, narrow-phase and ray-tracer.
package geom

// Numerical tolerances, fixed per the collision-core contract.
const (
	NearZero            = 1e-6
	ParallelTolerance   = 1e-4
	DegenerateDenom     = 1e-5
	ZeroRayReplacement  = 1e5
)
