package conv

import (
	"fmt"

	"github.com/tilekit-ml/tilekit/internal/engine"
	"github.com/tilekit-ml/tilekit/internal/tensor"
)

// loadBiasTiles loads one [C] bias slice per output-channel tile. The tiles
// stay resident for the whole run, shared read-only by all workers.
func loadBiasTiles(eng engine.Engine, arena *engine.Arena, bias *tensor.RawTensor, plan *Plan) ([]*engine.Tile, error) {
	tiles := make([]*engine.Tile, plan.TilesCOut)
	for oc := range tiles {
		t, err := arena.Alloc(tensor.Shape{plan.C}, plan.DType)
		if err != nil {
			return nil, fmt.Errorf("bias tile: %w", err)
		}
		eng.Load(t, bias, []int{oc * plan.C})
		tiles[oc] = t
	}
	return tiles, nil
}

// finishTile adds the per-channel bias across the spatial axes of the filled
// [C, R, outW] output tile and commits it to the output tensor region owned
// by (b, oc, t). Each output element is written exactly once.
func finishTile(eng engine.Engine, out *tensor.RawTensor, outTile, biasTile *engine.Tile, plan *Plan, b, oc, t int) {
	eng.BroadcastAdd(outTile, biasTile)
	eng.Store(out, []int{b, oc * plan.C, t * plan.R, 0}, outTile)
}
