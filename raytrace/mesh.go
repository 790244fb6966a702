// Package raytrace implements the two-level quantized-BVH ray tracer:
// a top-level acceleration structure (TLAS) over
// instances, each pointing at a bottom-level acceleration structure
// (BLAS) over that instance's triangle mesh.
package raytrace

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-collide/geom"
	"github.com/gekko3d/gekko-collide/qbvh"
)

// Triangle is one indexed triangle of a mesh, with per-vertex UVs for
// texture sampling during shading.
type Triangle struct {
	V0, V1, V2    mgl32.Vec3
	UV0, UV1, UV2 mgl32.Vec2
}

// MeshBVH is the bottom-level acceleration structure: a QBVH over one
// object's triangles, plus the backing triangle array
// its leaves index into.
type MeshBVH struct {
	Triangles []Triangle
	Tree      *qbvh.Tree
}

// NewMeshBVH builds a BLAS over tris, one triangle per leaf; coarser
// clustering buys nothing at the mesh sizes the renderer feeds it.
func NewMeshBVH(tris []Triangle) *MeshBVH {
	m := &MeshBVH{Triangles: tris}
	leaves := make([]qbvh.LeafID, len(tris))
	for i := range tris {
		leaves[i] = qbvh.LeafID(i)
	}
	m.Tree = qbvh.Build(leaves, m)
	return m
}

// LeafAABB implements qbvh.LeafSource over triangle bounds.
func (m *MeshBVH) LeafAABB(id qbvh.LeafID) geom.AABB {
	tri := m.Triangles[id]
	box := geom.AABB{Min: tri.V0, Max: tri.V0}
	box = box.Union(geom.AABB{Min: tri.V1, Max: tri.V1})
	box = box.Union(geom.AABB{Min: tri.V2, Max: tri.V2})
	return box
}

// intersectTriangle is the Möller-Trumbore ray-triangle test used by
// BLAS leaf intersection.
func intersectTriangle(r qbvh.Ray, tri Triangle) (t, u, v float32, hit bool) {
	const epsilon = 1e-7
	edge1 := tri.V1.Sub(tri.V0)
	edge2 := tri.V2.Sub(tri.V0)
	h := r.Dir.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return 0, 0, 0, false
	}
	f := 1 / a
	s := r.Origin.Sub(tri.V0)
	u = f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}
	q := s.Cross(edge1)
	v = f * r.Dir.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}
	t = f * edge2.Dot(q)
	if t < epsilon || t > r.TMax {
		return 0, 0, 0, false
	}
	return t, u, v, true
}

// HitInfo is the result a BLAS (and, after transforming back to world
// space, a TLAS) trace returns.
type HitInfo struct {
	THit   float32
	Normal mgl32.Vec3
	UV     mgl32.Vec2
	Mesh   *MeshBVH
	TriIdx int
	Hit    bool
}

// traceStackCapacity bounds the explicit DFS stack for both BLAS and
// TLAS traversal.
const traceStackCapacity = 32

// TraceBLAS performs the bottom-level DFS traversal: a 4-way slab test
// per node, Möller-Trumbore per triangle leaf, keeping the closest hit.
func TraceBLAS(m *MeshBVH, r qbvh.Ray) HitInfo {
	var best HitInfo
	if m.Tree.Empty() {
		return best
	}
	invDir := r.InvDir()

	var stack [traceStackCapacity]int
	sp := 0
	stack[sp] = m.Tree.Root
	sp++
	closest := r.TMax

	for sp > 0 {
		sp--
		node := &m.Tree.Nodes[stack[sp]]
		for i := 0; i < int(node.NumChildren); i++ {
			if node.ChildIsAbsent(i) {
				continue
			}
			_, tFar, hit := qbvh.ChildSlabTest(node, i, r, invDir)
			if !hit || tFar < 0 {
				continue
			}
			if node.ChildIsLeaf(i) {
				triIdx := int(node.LeafOf(i))
				tri := m.Triangles[triIdx]
				t, u, v, didHit := intersectTriangle(qbvh.Ray{Origin: r.Origin, Dir: r.Dir, TMax: closest}, tri)
				if didHit && t < closest {
					closest = t
					normal := tri.V1.Sub(tri.V0).Cross(tri.V2.Sub(tri.V0)).Normalize()
					uv := tri.UV0.Mul(1 - u - v).Add(tri.UV1.Mul(u)).Add(tri.UV2.Mul(v))
					best = HitInfo{THit: t, Normal: normal, UV: uv, Mesh: m, TriIdx: triIdx, Hit: true}
				}
				continue
			}
			if sp >= traceStackCapacity {
				panic("raytrace: BLAS traversal stack exceeded capacity 32")
			}
			stack[sp] = node.InternalOf(i)
			sp++
		}
	}
	return best
}
