// Package narrowphase implements the exact SAT-based convex-convex and
// convex-plane contact generator: it consumes the
// broad-phase's candidate pairs and produces bounded-size contact
// manifolds for the (external) solver.
package narrowphase

import (
	"fmt"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-collide/object"
)

// ContactPoint is one point of a Manifold: a world-space position and
// a non-negative penetration depth.
type ContactPoint struct {
	Position mgl32.Vec3
	Depth    float32
}

// Manifold is up to 4 contact points, a single world-space normal, and
// which side owns the reference face.
type Manifold struct {
	Points       [4]ContactPoint
	NumPoints    int
	Normal       mgl32.Vec3
	AIsReference bool
}

// ContactConstraint is the solver-facing record: a
// (ref, alt) entity pair, up to four Vec4 points packing
// position+depth, a count, and the normal.
type ContactConstraint struct {
	Ref, Alt object.EntityLocation
	Points   [4]mgl32.Vec4
	Count    int32
	Normal   mgl32.Vec3
}

// ToConstraint packs a Manifold into the solver's wire shape, honoring
// AIsReference to choose which entity is Ref.
func (m Manifold) ToConstraint(a, b object.EntityLocation) ContactConstraint {
	ref, alt := a, b
	if !m.AIsReference {
		ref, alt = b, a
	}
	c := ContactConstraint{Ref: ref, Alt: alt, Count: int32(m.NumPoints), Normal: m.Normal}
	for i := 0; i < m.NumPoints; i++ {
		p := m.Points[i]
		c.Points[i] = mgl32.Vec4{p.Position.X(), p.Position.Y(), p.Position.Z(), p.Depth}
	}
	return c
}

// Config bounds narrow-phase resources.
type Config struct {
	MaxContacts int
	// EmitEvents turns on per-pair collision-event recording for the
	// ECS surface to drain; off by default.
	EmitEvents bool
}

// CollisionEvent is the optional per-pair debug event the ECS surface
// consumes.
type CollisionEvent struct {
	A, B   object.EntityLocation
	Normal mgl32.Vec3
}

// ContactBuffer is the shared, atomically-indexed contact buffer:
// producers claim a slot via fetch-add; overflow past
// MaxContacts is fatal because it indicates caller misconfiguration.
type ContactBuffer struct {
	cfg      Config
	contacts []ContactConstraint
	count    int64
	Events   []CollisionEvent
	eventsMu chan struct{} // 1-slot semaphore guarding Events appends
}

// NewContactBuffer allocates a buffer with capacity cfg.MaxContacts.
func NewContactBuffer(cfg Config) *ContactBuffer {
	b := &ContactBuffer{
		cfg:      cfg,
		contacts: make([]ContactConstraint, cfg.MaxContacts),
		eventsMu: make(chan struct{}, 1),
	}
	b.eventsMu <- struct{}{}
	return b
}

// Push claims the next slot atomically and stores c. Exceeding
// MaxContacts panics.
func (b *ContactBuffer) Push(c ContactConstraint) {
	idx := atomic.AddInt64(&b.count, 1) - 1
	if idx >= int64(len(b.contacts)) {
		panic(fmt.Errorf("narrowphase: contact buffer overflow, capacity %d", len(b.contacts)))
	}
	b.contacts[idx] = c
}

// PushEvent records an optional collision event; safe for concurrent
// callers (guarded by a 1-slot semaphore, matching the narrow-phase's
// otherwise lock-free design since events are a debug-only path).
func (b *ContactBuffer) PushEvent(e CollisionEvent) {
	<-b.eventsMu
	b.Events = append(b.Events, e)
	b.eventsMu <- struct{}{}
}

// EmitEvents reports whether the buffer was configured to record
// per-pair collision events.
func (b *ContactBuffer) EmitEvents() bool { return b.cfg.EmitEvents }

// Count returns the number of contacts inserted so far.
func (b *ContactBuffer) Count() int {
	return int(atomic.LoadInt64(&b.count))
}

// Contacts returns the contacts inserted so far, in insertion-slot
// order. Insertion order is
// nondeterministic; the solver must be insensitive to it.
func (b *ContactBuffer) Contacts() []ContactConstraint {
	return b.contacts[:b.Count()]
}

// Reset reclaims the buffer wholesale for the next step; contacts and
// events live for exactly one step.
func (b *ContactBuffer) Reset() {
	atomic.StoreInt64(&b.count, 0)
	b.Events = nil
}
