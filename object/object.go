// Package object holds the process-wide, immutable-after-init tables
// the collision core reads from: entity transforms/response types
// (the ECS surface) and the shared per-ObjectID primitive/mass/friction
// table (the ObjectManager).
package object

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/gekko3d/gekko-collide/geom"
)

// ResponseType classifies how an entity participates in collision
// response.
type ResponseType int

const (
	Dynamic ResponseType = iota
	Kinematic
	Static
)

// ObjectID indexes into an ObjectManager's flat table.
type ObjectID int

// EntityLocation is the per-entity view the ECS surface hands the
// core; the core never writes it back.
type EntityLocation struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
	Object   ObjectID
	Response ResponseType
}

// PrimitiveKind tags the collision-primitive sum type.
// Ordering matches the narrow-phase's canonical dispatch order
// (Sphere < Hull < Plane).
type PrimitiveKind int

const (
	KindSphere PrimitiveKind = iota
	KindHull
	KindPlane
)

// Primitive is a tagged-variant collision shape; only the field
// matching Kind is meaningful.
type Primitive struct {
	Kind   PrimitiveKind
	Radius float32           // Sphere
	Hull   *geom.HalfEdgeMesh // Hull
}

func NewSphere(radius float32) Primitive {
	return Primitive{Kind: KindSphere, Radius: radius}
}

func NewPlanePrimitive() Primitive {
	return Primitive{Kind: KindPlane}
}

func NewHullPrimitive(mesh *geom.HalfEdgeMesh) Primitive {
	return Primitive{Kind: KindHull, Hull: mesh}
}

// ObjectEntry is one row of the ObjectManager's flat table.
type ObjectEntry struct {
	Primitives []Primitive
	LocalAABBs []geom.AABB // one per primitive, same index
	AABB       geom.AABB   // composed whole-object box
	Mass       float32
	Friction   float32
}

// ObjectManager is the process-wide, immutable-after-init object table
// table. WorldID exists purely for log disambiguation
// across the many independent worlds a batched simulation runs;
// no behavior depends on it.
type ObjectManager struct {
	WorldID string
	entries []ObjectEntry
}

// NewObjectManager builds an ObjectManager over a fixed id->entry table.
// The table is immutable after construction.
func NewObjectManager(entries []ObjectEntry) *ObjectManager {
	return &ObjectManager{
		WorldID: uuid.NewString(),
		entries: entries,
	}
}

// Entry returns the object-table row for id. Out-of-range ids panic:
// a bad ObjectID indicates caller misconfiguration, not a
// recoverable condition.
func (m *ObjectManager) Entry(id ObjectID) *ObjectEntry {
	if int(id) < 0 || int(id) >= len(m.entries) {
		panic(fmt.Errorf("object: ObjectID %d out of range [0,%d)", id, len(m.entries)))
	}
	return &m.entries[int(id)]
}

func (m *ObjectManager) Len() int { return len(m.entries) }

// WorldAABB composes an entity's object-space AABB into world space
// via the corner transform of ApplyTRS.
func (m *ObjectManager) WorldAABB(loc EntityLocation) geom.AABB {
	entry := m.Entry(loc.Object)
	return entry.AABB.ApplyTRS(loc.Position, loc.Rotation, loc.Scale)
}
