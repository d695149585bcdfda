package conv

import (
	"fmt"

	"github.com/tilekit-ml/tilekit/internal/engine"
	"github.com/tilekit-ml/tilekit/internal/tensor"
)

// weightStore holds the preprocessed filter bank: one [C, C] tile per
// (tap row, tap col, output-channel tile, input-channel tile), transposed so
// the input-channel axis leads. The matmul primitive contracts over the
// partition axis, so the transpose happens once here instead of inside the
// accumulation loop. The store is read-only after preprocessing.
type weightStore struct {
	plan  *Plan
	tiles []*engine.Tile
}

func (s *weightStore) index(i, j, oc, ic int) int {
	return ((i*s.plan.FW+j)*s.plan.TilesCOut+oc)*s.plan.TilesCIn + ic
}

// tap returns the preprocessed [C, C] weight tile for filter tap (i, j) and
// channel-tile pair (oc, ic). Layout: tap[inChannel, outChannel].
func (s *weightStore) tap(i, j, oc, ic int) *engine.Tile {
	return s.tiles[s.index(i, j, oc, ic)]
}

// preprocessWeights consumes the raw filter tensor once. For every channel-
// tile pair it loads the contiguous [C, C, fh, fw] block, then transposes
// each tap's [C, C] slice into the resident store.
func preprocessWeights(eng engine.Engine, arena *engine.Arena, w *tensor.RawTensor, plan *Plan) (*weightStore, error) {
	store := &weightStore{
		plan:  plan,
		tiles: make([]*engine.Tile, plan.FH*plan.FW*plan.TilesCOut*plan.TilesCIn),
	}

	staging, err := arena.Alloc(tensor.Shape{plan.C, plan.C, plan.FH, plan.FW}, plan.DType)
	if err != nil {
		return nil, fmt.Errorf("weight staging block: %w", err)
	}
	defer arena.Free(staging)

	for oc := 0; oc < plan.TilesCOut; oc++ {
		for ic := 0; ic < plan.TilesCIn; ic++ {
			eng.Load(staging, w, []int{oc * plan.C, ic * plan.C, 0, 0})

			for i := 0; i < plan.FH; i++ {
				for j := 0; j < plan.FW; j++ {
					tap, err := arena.Alloc(tensor.Shape{plan.C, plan.C}, plan.DType)
					if err != nil {
						return nil, fmt.Errorf("weight tap tile: %w", err)
					}
					// staging[:, :, i, j] is [outChannel, inChannel];
					// the store keeps its transpose.
					eng.Transpose(tap, staging.Index(3, j).Index(2, i))
					store.tiles[store.index(i, j, oc, ic)] = tap
				}
			}
		}
	}

	return store, nil
}
