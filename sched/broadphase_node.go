package sched

import (
	gekko "github.com/gekko3d/gekko-collide"
	"github.com/gekko3d/gekko-collide/broadphase"
)

// CandidateSink receives every candidate pair emitted by a broad-phase
// step; narrow-phase nodes built over the same builder read from it.
type CandidateSink struct {
	candidates []broadphase.CandidateCollision
}

// Take returns and clears the accumulated candidates for this step.
func (s *CandidateSink) Take() []broadphase.CandidateCollision {
	out := s.candidates
	s.candidates = nil
	return out
}

// SetupBroadphase wires a broadphase.World's Step into a task-graph
// node. The node has
// no upstream dependency within the collision core (it is driven by
// whatever upstream transform/motion systems `deps` represent) and
// produces a CandidateSink the narrow-phase node consumes.
func SetupBroadphase(b *Builder, world *broadphase.World, deps []*Node, logger gekko.Logger) (*Node, *CandidateSink) {
	if logger == nil {
		logger = gekko.NewNopLogger()
	}
	sink := &CandidateSink{}
	node := b.Node("broadphase", deps, func() {
		sink.candidates = sink.candidates[:0]
		world.Step(func(c broadphase.CandidateCollision) {
			sink.candidates = append(sink.candidates, c)
		})
		if world.DroppedCandidates > 0 {
			logger.Warnf("broadphase: dropped %d candidate pairs over MaxCandidates for world %s", world.DroppedCandidates, world.WorldID)
		}
	})
	return node, sink
}
