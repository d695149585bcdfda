package conv

import "github.com/tilekit-ml/tilekit/internal/engine"

// accumulateRow computes one output row of one output-channel tile into acc:
// for every filter tap and input-channel tile, the preprocessed weight tile
// is multiplied against the sliding [C, outW] window slice and accumulated.
//
//	acc[c, x] = sum_{i,j,ic} W[oc*C+c, ic, i, j] * X[b, ic, t*R+r+i, x+j]
//
// This is the dominant cost center: fh*fw*tilesCIn matmuls per call.
func accumulateRow(eng engine.Engine, weights *weightStore, win *inputWindow, acc *engine.Tile, plan *Plan, oc, r int) {
	eng.Zero(acc)
	for i := 0; i < plan.FH; i++ {
		for j := 0; j < plan.FW; j++ {
			for ic := 0; ic < plan.TilesCIn; ic++ {
				eng.MatMulAcc(acc, weights.tap(i, j, oc, ic), win.slice(ic, r+i, j, plan.OutW))
			}
		}
	}
}
