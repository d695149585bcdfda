package conv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tilekit-ml/tilekit/internal/engine/cpu"
	"github.com/tilekit-ml/tilekit/internal/tensor"
)

// TestPreprocessWeights_TapLayout checks every preprocessed tap against the
// raw filter tensor on a small geometry: tap(i,j,oc,ic) must hold the
// transposed [C, C] slice, indexed tap[icLocal, ocLocal].
func TestPreprocessWeights_TapLayout(t *testing.T) {
	eng := cpu.NewWithGeometry(4, 8, 1<<20)
	params := Params{ChannelTile: 2, RowTile: 1}

	x := tensor.Zeros[float32](tensor.Shape{1, 4, 4, 4})
	w := patternTensor(t, tensor.Shape{4, 4, 2, 2}, func(i int) float32 {
		return float32(i)
	})
	bias := tensor.Zeros[float32](tensor.Shape{4})

	plan, err := NewPlan(eng, x, w, bias, params)
	require.NoError(t, err)
	require.Equal(t, 2, plan.TilesCIn)
	require.Equal(t, 2, plan.TilesCOut)

	arena := eng.NewArena()
	store, err := preprocessWeights(eng, arena, w, plan)
	require.NoError(t, err)

	wStrides := w.Strides()
	wData := w.AsFloat32()
	c := plan.C

	for i := 0; i < plan.FH; i++ {
		for j := 0; j < plan.FW; j++ {
			for oc := 0; oc < plan.TilesCOut; oc++ {
				for ic := 0; ic < plan.TilesCIn; ic++ {
					tap := store.tap(i, j, oc, ic)
					require.True(t, tap.Shape().Equal(tensor.Shape{c, c}))

					got := tap.Float32()
					for icl := 0; icl < c; icl++ {
						for ocl := 0; ocl < c; ocl++ {
							want := wData[(oc*c+ocl)*wStrides[0]+
								(ic*c+icl)*wStrides[1]+
								i*wStrides[2]+j]
							require.Equal(t, want, got[icl*c+ocl],
								"tap(%d,%d,%d,%d)[%d,%d]", i, j, oc, ic, icl, ocl)
						}
					}
				}
			}
		}
	}
}

// TestPreprocessWeights_Deterministic runs preprocessing twice over the same
// filter tensor and compares the resident stores element for element.
func TestPreprocessWeights_Deterministic(t *testing.T) {
	eng := cpu.NewWithGeometry(4, 8, 1<<20)
	params := Params{ChannelTile: 2, RowTile: 1}

	x := tensor.Zeros[float32](tensor.Shape{1, 4, 4, 4})
	w := patternTensor(t, tensor.Shape{4, 4, 2, 2}, func(i int) float32 {
		return float32((i%13)-6) * 0.5
	})
	bias := tensor.Zeros[float32](tensor.Shape{4})

	plan, err := NewPlan(eng, x, w, bias, params)
	require.NoError(t, err)

	first, err := preprocessWeights(eng, eng.NewArena(), w, plan)
	require.NoError(t, err)
	second, err := preprocessWeights(eng, eng.NewArena(), w, plan)
	require.NoError(t, err)

	require.Len(t, second.tiles, len(first.tiles))
	for i := range first.tiles {
		require.Equal(t, first.tiles[i].Float32(), second.tiles[i].Float32(), "tile %d", i)
	}
}

// TestPreprocessWeights_StagingFreed verifies the staging block is returned
// to the arena, leaving only the resident tap tiles allocated.
func TestPreprocessWeights_StagingFreed(t *testing.T) {
	eng := cpu.NewWithGeometry(4, 8, 1<<20)
	params := Params{ChannelTile: 2, RowTile: 1}

	x := tensor.Zeros[float32](tensor.Shape{1, 4, 4, 4})
	w := tensor.Zeros[float32](tensor.Shape{4, 4, 2, 2})
	bias := tensor.Zeros[float32](tensor.Shape{4})

	plan, err := NewPlan(eng, x, w, bias, params)
	require.NoError(t, err)

	arena := eng.NewArena()
	store, err := preprocessWeights(eng, arena, w, plan)
	require.NoError(t, err)

	tapBytes := plan.C * plan.C * plan.DType.Size()
	require.Equal(t, len(store.tiles)*tapBytes, arena.Used())
}
