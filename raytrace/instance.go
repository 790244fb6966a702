package raytrace

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-collide/geom"
	"github.com/gekko3d/gekko-collide/qbvh"
)

// Instance is one TLAS leaf: a pointer to a per-object BLAS plus its
// world transform.
type Instance struct {
	BLAS  *MeshBVH
	Pos   mgl32.Vec3
	Rot   mgl32.Quat
	Scale mgl32.Vec3
}

// worldAABB is the instance's world-space bounds, used to build the
// TLAS leaf boxes.
func (inst *Instance) worldAABB() geom.AABB {
	box := geom.AABB{}
	first := true
	for _, tri := range inst.BLAS.Triangles {
		for _, v := range [3]mgl32.Vec3{tri.V0, tri.V1, tri.V2} {
			world := inst.Pos.Add(inst.Rot.Rotate(mgl32.Vec3{v.X() * inst.Scale.X(), v.Y() * inst.Scale.Y(), v.Z() * inst.Scale.Z()}))
			if first {
				box = geom.AABB{Min: world, Max: world}
				first = false
			} else {
				box = box.Union(geom.AABB{Min: world, Max: world})
			}
		}
	}
	return box
}

// isZeroScale reports whether inst's scale is entirely zero; NewTLAS
// leaves such instances out of the tree, so traversal never visits
// them.
func (inst *Instance) isZeroScale() bool {
	return inst.Scale.X() == 0 && inst.Scale.Y() == 0 && inst.Scale.Z() == 0
}

// TLAS is the top-level acceleration structure: a QBVH whose leaves
// point to Instances.
type TLAS struct {
	Instances []Instance
	Tree      *qbvh.Tree
}

// NewTLAS builds the top-level tree over the given instances.
func NewTLAS(instances []Instance) *TLAS {
	t := &TLAS{Instances: instances}
	leaves := make([]qbvh.LeafID, 0, len(instances))
	for i, inst := range instances {
		if inst.isZeroScale() {
			continue
		}
		leaves = append(leaves, qbvh.LeafID(i))
	}
	t.Tree = qbvh.Build(leaves, t)
	return t
}

// LeafAABB implements qbvh.LeafSource over instance world bounds.
func (t *TLAS) LeafAABB(id qbvh.LeafID) geom.AABB {
	return t.Instances[id].worldAABB()
}
