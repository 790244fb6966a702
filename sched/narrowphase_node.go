package sched

import (
	"runtime"
	"sync"
	"sync/atomic"

	gekko "github.com/gekko3d/gekko-collide"
	"github.com/gekko3d/gekko-collide/narrowphase"
	"github.com/gekko3d/gekko-collide/object"
)

// SetupNarrowphase wires narrowphase.Dispatch over a broad-phase's
// candidate sink into a task-graph node. The node resets the
// shared contact buffer, then parallel-fors over the step's candidate
// pairs across a worker pool sized to GOMAXPROCS: each pair is
// independent, and the only
// shared state is ContactBuffer's atomic fetch-add slot claim.
func SetupNarrowphase(b *Builder, broadphaseNode *Node, sink *CandidateSink, objects *object.ObjectManager, buf *narrowphase.ContactBuffer, logger gekko.Logger) *Node {
	if logger == nil {
		logger = gekko.NewNopLogger()
	}
	return b.Node("narrowphase", []*Node{broadphaseNode}, func() {
		buf.Reset()
		candidates := sink.Take()
		if len(candidates) == 0 {
			return
		}

		workers := runtime.GOMAXPROCS(0)
		if workers > len(candidates) {
			workers = len(candidates)
		}
		if workers < 1 {
			workers = 1
		}

		var next int64
		var wg sync.WaitGroup
		wg.Add(workers)
		for w := 0; w < workers; w++ {
			go func() {
				defer wg.Done()
				for {
					i := atomic.AddInt64(&next, 1) - 1
					if i >= int64(len(candidates)) {
						return
					}
					m, a, bEnt, hit := narrowphase.Dispatch(objects, candidates[i])
					if !hit {
						continue
					}
					buf.Push(m.ToConstraint(a, bEnt))
					if buf.EmitEvents() {
						buf.PushEvent(narrowphase.CollisionEvent{A: a, B: bEnt, Normal: m.Normal})
					}
				}
			}()
		}
		wg.Wait()

		if buf.Count() > 0 {
			logger.Debugf("narrowphase: %d contacts generated from %d candidates", buf.Count(), len(candidates))
		}
	})
}
