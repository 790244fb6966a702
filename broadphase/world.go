package broadphase

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/gekko3d/gekko-collide/geom"
	"github.com/gekko3d/gekko-collide/object"
)

// Margin is the small epsilon the per-entity world AABB is expanded by
// each step to absorb a frame's worth of motion.
const Margin = 0.01

// RebuildMotionThreshold bounds the accumulated leaf-center motion
// since the last full rebuild before the policy forces a rebuild
// instead of a refit.
const RebuildMotionThreshold = 1.0

// CandidateCollision is a pair of entity locations plus their
// primitive indices.
type CandidateCollision struct {
	A, B       object.EntityLocation
	PrimitiveA int
	PrimitiveB int
}

// Config bounds the per-world broad-phase's resources.
type Config struct {
	MaxDynamicObjects int
	MaxCandidates     int
}

// World is the per-world broad-phase state: a leaf array sized by
// MaxDynamicObjects, the currently built tree, and the
// rebuild/refit bookkeeping.
type World struct {
	WorldID string
	cfg     Config

	objects *object.ObjectManager

	slotEntity []object.EntityLocation // index by LeafID-like slot; zero value = unused
	slotInUse  []bool
	numLeaves  int

	tree *Tree

	lastBuildCenters []mgl32.Vec3
	needsRebuild     bool

	// DroppedCandidates counts candidate pairs dropped once MaxCandidates
	// is reached.
	DroppedCandidates int
}

// NewWorld allocates a broad-phase world over the shared object table.
func NewWorld(objects *object.ObjectManager, cfg Config) *World {
	return &World{
		WorldID:      uuid.NewString(),
		cfg:          cfg,
		objects:      objects,
		slotEntity:   make([]object.EntityLocation, cfg.MaxDynamicObjects),
		slotInUse:    make([]bool, cfg.MaxDynamicObjects),
		needsRebuild: true,
	}
}

// LeafID is the stable per-world slot reserved at entity
// registration.
type LeafID int

// ReserveLeaf assigns the next free slot for a newly registered
// entity. Registration is single-threaded; no atomics needed here.
func (w *World) ReserveLeaf() LeafID {
	if w.numLeaves >= len(w.slotEntity) {
		panic("broadphase: leaf count exceeds configured MaxDynamicObjects")
	}
	id := LeafID(w.numLeaves)
	w.numLeaves++
	w.slotInUse[id] = true
	w.needsRebuild = true
	return id
}

// SetEntity updates the transform/response data for a reserved leaf.
func (w *World) SetEntity(id LeafID, loc object.EntityLocation) {
	w.slotEntity[id] = loc
}

// Step performs one broad-phase pass: recompute world AABBs, choose
// rebuild vs refit, build/refit the tree, and emit candidate pairs via
// emit.
func (w *World) Step(emit func(CandidateCollision)) {
	leafAABBs := make([]geom.AABB, w.numLeaves)
	centers := make([]mgl32.Vec3, w.numLeaves)
	var active []int
	for i := 0; i < w.numLeaves; i++ {
		if !w.slotInUse[i] {
			continue
		}
		loc := w.slotEntity[i]
		box := w.objects.WorldAABB(loc).Expand(Margin)
		leafAABBs[i] = box
		centers[i] = box.Center()
		active = append(active, i)
	}

	rebuild := w.needsRebuild || w.tree == nil || len(w.lastBuildCenters) != len(centers)
	if !rebuild {
		var motion float32
		for i, c := range centers {
			motion += c.Sub(w.lastBuildCenters[i]).Len()
		}
		rebuild = motion > RebuildMotionThreshold
	}

	if rebuild {
		w.tree = Build(leafAABBs, active)
		w.lastBuildCenters = centers
		w.needsRebuild = false
	} else {
		w.tree.LeafAABBs = leafAABBs
		Refit(w.tree)
	}

	w.emitCandidates(leafAABBs, emit)
}

// emitCandidates traverses the tree against each leaf's own AABB and
// keeps pairs (a,b) with a < b (lexicographic on slot index) to avoid
// duplicates; pairs where both entities are Static are skipped.
func (w *World) emitCandidates(leafAABBs []geom.AABB, emit func(CandidateCollision)) {
	count := 0
	for a := 0; a < w.numLeaves; a++ {
		if !w.slotInUse[a] {
			continue
		}
		FindOverlaps(w.tree, leafAABBs[a], func(b int) {
			if b <= a {
				return
			}
			locA, locB := w.slotEntity[a], w.slotEntity[b]
			if locA.Response == object.Static && locB.Response == object.Static {
				return
			}
			if count >= w.cfg.MaxCandidates {
				w.DroppedCandidates++
				return
			}
			count++
			emit(pairFor(w.objects, locA, locB))
		})
	}
}

// pairFor records the first primitive (index 0) of each object in the
// candidate record. narrowphase.Dispatch tests only the primitives the
// record names, so the further primitives of a multi-primitive object
// are not tested.
func pairFor(objects *object.ObjectManager, a, b object.EntityLocation) CandidateCollision {
	return CandidateCollision{A: a, B: b, PrimitiveA: 0, PrimitiveB: 0}
}
