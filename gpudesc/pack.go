// Package gpudesc lays the collision core's hot arrays out for the GPU
// deployment: quantized BVH nodes, TLAS instance transforms and contact
// constraints are packed into std430-friendly byte streams and kept
// resident in storage buffers a compute executor binds against.
package gpudesc

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-collide/narrowphase"
	"github.com/gekko3d/gekko-collide/qbvh"
	"github.com/gekko3d/gekko-collide/raytrace"
)

// Strides of the packed records. Each is a multiple of 16 so array
// elements stay vec4-aligned in a storage buffer.
const (
	NodeStride     = 64
	InstanceStride = 96
	ContactStride  = 96
)

// NodesBytes packs a QBVH node array. Layout per node:
//
//	offset  0  minPoint.xyz (3 x f32)
//	offset 12  expX|expY|expZ|numChildren (4 x i8)
//	offset 16  qMinX[4] qMinY[4] qMinZ[4] qMaxX[4] qMaxY[4] qMaxZ[4]
//	offset 40  pad to 48
//	offset 48  childrenIdx[4] (4 x i32)
func NodesBytes(t *qbvh.Tree) []byte {
	if t == nil || t.Empty() {
		// A zero node keeps the binding non-empty, same trick the
		// buffer manager uses for scenes with no geometry yet.
		return make([]byte, NodeStride)
	}
	out := make([]byte, 0, len(t.Nodes)*NodeStride)
	for i := range t.Nodes {
		out = append(out, nodeBytes(&t.Nodes[i])...)
	}
	return out
}

func nodeBytes(n *qbvh.Node) []byte {
	buf := make([]byte, NodeStride)
	putVec3(buf[0:], n.MinPoint)
	buf[12] = byte(n.ExpX)
	buf[13] = byte(n.ExpY)
	buf[14] = byte(n.ExpZ)
	buf[15] = byte(n.NumChildren)
	copy(buf[16:20], n.QMinX[:])
	copy(buf[20:24], n.QMinY[:])
	copy(buf[24:28], n.QMinZ[:])
	copy(buf[28:32], n.QMaxX[:])
	copy(buf[32:36], n.QMaxY[:])
	copy(buf[36:40], n.QMaxZ[:])
	for c := 0; c < 4; c++ {
		binary.LittleEndian.PutUint32(buf[48+c*4:], uint32(n.ChildrenIdx[c]))
	}
	return buf
}

// InstancesBytes packs the TLAS instance table. Layout per instance:
//
//	offset  0  position.xyz + pad
//	offset 16  rotation quaternion (x, y, z, w)
//	offset 32  scale.xyz + pad
//	offset 48  world AABB min + pad
//	offset 64  world AABB max + pad
//	offset 80  instance index + pad
func InstancesBytes(tlas *raytrace.TLAS) []byte {
	if tlas == nil || len(tlas.Instances) == 0 {
		return make([]byte, InstanceStride)
	}
	out := make([]byte, 0, len(tlas.Instances)*InstanceStride)
	for i := range tlas.Instances {
		inst := &tlas.Instances[i]
		buf := make([]byte, InstanceStride)
		putVec3(buf[0:], inst.Pos)
		putF32(buf[16:], inst.Rot.V.X())
		putF32(buf[20:], inst.Rot.V.Y())
		putF32(buf[24:], inst.Rot.V.Z())
		putF32(buf[28:], inst.Rot.W)
		putVec3(buf[32:], inst.Scale)
		box := tlas.LeafAABB(qbvh.LeafID(i))
		putVec3(buf[48:], box.Min)
		putVec3(buf[64:], box.Max)
		binary.LittleEndian.PutUint32(buf[80:], uint32(i))
		out = append(out, buf...)
	}
	return out
}

// ContactsBytes packs the step's contact constraints. Layout per
// contact:
//
//	offset  0  four points, position.xyz + depth each (4 x vec4)
//	offset 64  normal.xyz + pad
//	offset 80  point count + pad
func ContactsBytes(contacts []narrowphase.ContactConstraint) []byte {
	if len(contacts) == 0 {
		return make([]byte, ContactStride)
	}
	out := make([]byte, 0, len(contacts)*ContactStride)
	for i := range contacts {
		c := &contacts[i]
		buf := make([]byte, ContactStride)
		for p := 0; p < 4; p++ {
			putF32(buf[p*16:], c.Points[p].X())
			putF32(buf[p*16+4:], c.Points[p].Y())
			putF32(buf[p*16+8:], c.Points[p].Z())
			putF32(buf[p*16+12:], c.Points[p].W())
		}
		putVec3(buf[64:], c.Normal)
		binary.LittleEndian.PutUint32(buf[80:], uint32(c.Count))
		out = append(out, buf...)
	}
	return out
}

func putF32(buf []byte, v float32) {
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
}

func putVec3(buf []byte, v mgl32.Vec3) {
	putF32(buf[0:], v.X())
	putF32(buf[4:], v.Y())
	putF32(buf[8:], v.Z())
}
