package raytrace

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-collide/qbvh"
)

// TraceRayTLAS is the two-level trace: explicit-
// stack DFS (capacity 32) over the TLAS; for each leaf, the ray is
// transformed into the instance's local frame and recursed into its
// BLAS.
func TraceRayTLAS(tlas *TLAS, ray qbvh.Ray) HitInfo {
	var best HitInfo
	if tlas.Tree == nil || tlas.Tree.Empty() {
		return best
	}
	invDir := ray.InvDir()
	closest := ray.TMax

	var stack [traceStackCapacity]int
	sp := 0
	stack[sp] = tlas.Tree.Root
	sp++

	for sp > 0 {
		sp--
		node := &tlas.Tree.Nodes[stack[sp]]
		for i := 0; i < int(node.NumChildren); i++ {
			if node.ChildIsAbsent(i) {
				continue
			}
			_, tFar, hit := qbvh.ChildSlabTest(node, i, ray, invDir)
			if !hit || tFar < 0 {
				continue
			}
			if node.ChildIsLeaf(i) {
				inst := &tlas.Instances[node.LeafOf(i)]
				localRay, tScale := toLocalRay(ray, inst, closest)
				hitInfo := TraceBLAS(inst.BLAS, localRay)
				if !hitInfo.Hit {
					continue
				}
				worldT := hitInfo.THit / tScale
				if worldT >= closest {
					continue
				}
				closest = worldT
				worldNormal := inst.Rot.Rotate(mgl32.Vec3{
					hitInfo.Normal.X() * inst.Scale.X(),
					hitInfo.Normal.Y() * inst.Scale.Y(),
					hitInfo.Normal.Z() * inst.Scale.Z(),
				}).Normalize()
				best = HitInfo{
					THit:   worldT,
					Normal: worldNormal,
					UV:     hitInfo.UV,
					Mesh:   inst.BLAS,
					TriIdx: hitInfo.TriIdx,
					Hit:    true,
				}
				continue
			}
			if sp >= traceStackCapacity {
				panic("raytrace: TLAS traversal stack exceeded capacity 32")
			}
			stack[sp] = node.InternalOf(i)
			sp++
		}
	}
	return best
}

// toLocalRay transforms a world ray into the instance frame:
// rayO' = S⁻¹·R⁻¹·(rayO−pos), rayD' = S⁻¹·R⁻¹·rayD normalized,
// returning the scalar t_scale (the unnormalized local direction's
// length) the caller divides the BLAS's returned tHit by to recover
// world units.
func toLocalRay(ray qbvh.Ray, inst *Instance, tMax float32) (qbvh.Ray, float32) {
	invRot := inst.Rot.Conjugate()
	invScale := mgl32.Vec3{safeRecip(inst.Scale.X()), safeRecip(inst.Scale.Y()), safeRecip(inst.Scale.Z())}

	localOriginRot := invRot.Rotate(ray.Origin.Sub(inst.Pos))
	localOrigin := mgl32.Vec3{localOriginRot.X() * invScale.X(), localOriginRot.Y() * invScale.Y(), localOriginRot.Z() * invScale.Z()}

	localDirRot := invRot.Rotate(ray.Dir)
	localDirUnnormalized := mgl32.Vec3{localDirRot.X() * invScale.X(), localDirRot.Y() * invScale.Y(), localDirRot.Z() * invScale.Z()}
	tScale := localDirUnnormalized.Len()
	if tScale < 1e-8 {
		tScale = 1e-8
	}
	localDir := localDirUnnormalized.Mul(1 / tScale)

	return qbvh.Ray{Origin: localOrigin, Dir: localDir, TMax: tMax * tScale}, tScale
}

func safeRecip(v float32) float32 {
	if v == 0 {
		return 0
	}
	return 1 / v
}
