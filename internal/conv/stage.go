package conv

import (
	"fmt"

	"github.com/tilekit-ml/tilekit/internal/engine"
	"github.com/tilekit-ml/tilekit/internal/tensor"
)

// inputWindow stages the overlapping input rows one row tile needs: for each
// input-channel tile, a [C, R+fh-1, W] tile. The window is loaded once per
// (batch, row tile) and read by every output-channel tile processed against
// it; staging the next row tile overwrites it in place.
type inputWindow struct {
	tiles []*engine.Tile
}

func newInputWindow(arena *engine.Arena, plan *Plan) (*inputWindow, error) {
	win := &inputWindow{tiles: make([]*engine.Tile, plan.TilesCIn)}
	for ic := range win.tiles {
		t, err := arena.Alloc(tensor.Shape{plan.C, plan.WindowRows, plan.W}, plan.DType)
		if err != nil {
			return nil, fmt.Errorf("input window tile: %w", err)
		}
		win.tiles[ic] = t
	}
	return win, nil
}

// stage loads rows [t*R, t*R+windowRows) of batch item b across all
// input-channel tiles, replacing the previously staged window.
func (win *inputWindow) stage(eng engine.Engine, x *tensor.RawTensor, plan *Plan, b, t int) {
	for ic, tile := range win.tiles {
		eng.Load(tile, x, []int{b, ic * plan.C, t * plan.R, 0})
	}
}

// slice returns the [C, outW] view of input-channel tile ic at window row
// `row`, starting at column col.
func (win *inputWindow) slice(ic, row, col, outW int) *engine.Tile {
	return win.tiles[ic].Index(1, row).Narrow(1, col, outW)
}

func (win *inputWindow) free(arena *engine.Arena) {
	for _, t := range win.tiles {
		arena.Free(t)
	}
}
