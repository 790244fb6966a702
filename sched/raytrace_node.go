package sched

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	gekko "github.com/gekko3d/gekko-collide"
	"github.com/gekko3d/gekko-collide/qbvh"
	"github.com/gekko3d/gekko-collide/raytrace"
)

// ViewTile is one rectangular region of a render target, the unit of
// work the CPU ray-trace node parallel-fors over: one
// logical task per view tile.
type ViewTile struct {
	X0, Y0, X1, Y1 int
	RayAt          func(x, y int) qbvh.Ray
	WritePixel     func(x, y int, p raytrace.Pixel)
	BaseColor      mgl32.Vec4
	Sample         raytrace.TextureSample
}

// SetupRaytrace wires TraceRayTLAS+Shade over a set of view tiles into
// a task-graph node.
// Each tile's pixels are independent, so the node parallel-fors over
// tiles across a GOMAXPROCS-sized worker pool, same shape as the
// narrow-phase node's candidate parallel-for.
func SetupRaytrace(b *Builder, deps []*Node, tlas *raytrace.TLAS, tiles []ViewTile, logger gekko.Logger) *Node {
	if logger == nil {
		logger = gekko.NewNopLogger()
	}
	return b.Node("raytrace", deps, func() {
		if len(tiles) == 0 {
			return
		}
		workers := runtime.GOMAXPROCS(0)
		if workers > len(tiles) {
			workers = len(tiles)
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
					if i >= int64(len(tiles)) {
						return
					}
					traceTile(tlas, tiles[i])
				}
			}()
		}
		wg.Wait()
		logger.Debugf("raytrace: traced %d tiles over %d instances", len(tiles), len(tlas.Instances))
	})
}

func traceTile(tlas *raytrace.TLAS, tile ViewTile) {
	for y := tile.Y0; y < tile.Y1; y++ {
		for x := tile.X0; x < tile.X1; x++ {
			ray := tile.RayAt(x, y)
			hit := raytrace.TraceRayTLAS(tlas, ray)
			tile.WritePixel(x, y, raytrace.Shade(hit, tile.BaseColor, tile.Sample, false))
		}
	}
}
