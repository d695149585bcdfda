package conv

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilekit-ml/tilekit/internal/engine/cpu"
	"github.com/tilekit-ml/tilekit/internal/parallel"
	"github.com/tilekit-ml/tilekit/internal/tensor"
)

// patternTensor fills a tensor with a small deterministic pattern.
func patternTensor(t *testing.T, shape tensor.Shape, f func(i int) float32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32)
	require.NoError(t, err)
	data := raw.AsFloat32()
	for i := range data {
		data[i] = f(i)
	}
	return raw
}

// TestConv2D_ScenarioA checks a single-tile problem against the naive
// reference: batch=1, 128 channels in and out, 6x6 input, 3x3 filter.
func TestConv2D_ScenarioA(t *testing.T) {
	x := patternTensor(t, tensor.Shape{1, 128, 6, 6}, func(i int) float32 {
		return float32(i%7) * 0.01
	})
	w := patternTensor(t, tensor.Shape{128, 128, 3, 3}, func(i int) float32 {
		return float32((i%5)-2) * 0.01
	})
	bias := patternTensor(t, tensor.Shape{128}, func(i int) float32 {
		return float32(i%3) * 0.5
	})

	out, err := Conv2D(x, w, bias)
	require.NoError(t, err)
	require.True(t, out.Shape().Equal(tensor.Shape{1, 128, 4, 4}),
		"output shape = %v", out.Shape())

	want := referenceConv2D(t, x, w, bias)

	outData := out.AsFloat32()
	wantData := want.AsFloat32()
	for i := range wantData {
		assert.InDelta(t, wantData[i], outData[i], 1e-5, "output mismatch at index %d", i)
	}
}

// TestConv2D_ScenarioB checks multi-tile accumulation (two input-channel
// tiles, two output-channel tiles) with random inputs.
func TestConv2D_ScenarioB(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	x := tensor.Randn[float32](tensor.Shape{2, 256, 10, 10}, rng)
	w := tensor.Randn[float32](tensor.Shape{256, 256, 3, 3}, rng)
	bias := tensor.Randn[float32](tensor.Shape{256}, rng)

	// Scale down so float32 accumulation error stays well under tolerance.
	for _, raw := range []*tensor.RawTensor{x, w} {
		data := raw.AsFloat32()
		for i := range data {
			data[i] *= 0.05
		}
	}

	out, err := Conv2D(x, w, bias)
	require.NoError(t, err)
	require.True(t, out.Shape().Equal(tensor.Shape{2, 256, 8, 8}),
		"output shape = %v", out.Shape())

	want := referenceConv2D(t, x, w, bias)

	outData := out.AsFloat32()
	wantData := want.AsFloat32()
	for i := range wantData {
		require.InDelta(t, wantData[i], outData[i], 1e-4, "output mismatch at index %d", i)
	}
}

// TestConv2D_BiasBehavior verifies the bias broadcast: zero bias reduces the
// kernel to pure convolution, and an arbitrary bias shifts every spatial
// position of a channel by exactly that channel's bias.
func TestConv2D_BiasBehavior(t *testing.T) {
	x := patternTensor(t, tensor.Shape{1, 128, 6, 6}, func(i int) float32 {
		return float32(i%4) * 0.02
	})
	w := patternTensor(t, tensor.Shape{128, 128, 3, 3}, func(i int) float32 {
		return float32((i%3)-1) * 0.02
	})

	zeroBias := tensor.Zeros[float32](tensor.Shape{128})
	someBias := patternTensor(t, tensor.Shape{128}, func(i int) float32 {
		return float32(i)*0.25 - 16
	})

	pure, err := Conv2D(x, w, zeroBias)
	require.NoError(t, err)

	wantPure := referenceConv2D(t, x, w, zeroBias)
	pureData := pure.AsFloat32()
	wantData := wantPure.AsFloat32()
	for i := range wantData {
		assert.InDelta(t, wantData[i], pureData[i], 1e-5, "pure conv mismatch at index %d", i)
	}

	shifted, err := Conv2D(x, w, someBias)
	require.NoError(t, err)

	shiftedData := shifted.AsFloat32()
	biasData := someBias.AsFloat32()
	outShape := shifted.Shape()
	spatial := outShape[2] * outShape[3]
	for o := 0; o < outShape[1]; o++ {
		for s := 0; s < spatial; s++ {
			idx := o*spatial + s
			assert.InDelta(t, pureData[idx]+biasData[o], shiftedData[idx], 1e-5,
				"bias shift mismatch at channel %d position %d", o, s)
		}
	}
}

// TestConv2D_TileSizeInvariance verifies that varying the channel and row
// tile sizes (subject to divisibility) leaves the output unchanged.
func TestConv2D_TileSizeInvariance(t *testing.T) {
	x := patternTensor(t, tensor.Shape{1, 128, 6, 6}, func(i int) float32 {
		return float32(i%9) * 0.01
	})
	w := patternTensor(t, tensor.Shape{128, 128, 3, 3}, func(i int) float32 {
		return float32((i%7)-3) * 0.01
	})
	bias := patternTensor(t, tensor.Shape{128}, func(i int) float32 {
		return float32(i % 5)
	})

	eng := cpu.New()
	baseline, err := New(eng).Conv2D(x, w, bias)
	require.NoError(t, err)
	baseData := baseline.AsFloat32()

	configs := []Params{
		{ChannelTile: 64, RowTile: 2},
		{ChannelTile: 128, RowTile: 1},
		{ChannelTile: 64, RowTile: 4},
	}
	for _, params := range configs {
		out, err := NewWithConfig(eng, params, parallel.Sequential()).Conv2D(x, w, bias)
		require.NoError(t, err, "params %+v", params)

		outData := out.AsFloat32()
		for i := range baseData {
			require.InDelta(t, baseData[i], outData[i], 1e-5,
				"params %+v mismatch at index %d", params, i)
		}
	}
}

// TestConv2D_Float64 exercises the float64 path end to end.
func TestConv2D_Float64(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	x := tensor.Randn[float64](tensor.Shape{1, 128, 6, 6}, rng)
	w := tensor.Randn[float64](tensor.Shape{128, 128, 3, 3}, rng)
	bias := tensor.Randn[float64](tensor.Shape{128}, rng)

	out, err := Conv2D(x, w, bias)
	require.NoError(t, err)

	want := referenceConv2D(t, x, w, bias)

	outData := out.AsFloat64()
	wantData := want.AsFloat64()
	for i := range wantData {
		require.InDelta(t, wantData[i], outData[i], 1e-9, "output mismatch at index %d", i)
	}
}

// TestConv2D_ParallelMatchesSequential verifies batch-parallel execution
// produces exactly the sequential result: batch items are independent and
// each one runs the same deterministic loop nest.
func TestConv2D_ParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(13))

	x := tensor.Randn[float32](tensor.Shape{4, 128, 6, 6}, rng)
	w := tensor.Randn[float32](tensor.Shape{128, 128, 3, 3}, rng)
	bias := tensor.Randn[float32](tensor.Shape{128}, rng)

	eng := cpu.New()
	seq, err := NewWithConfig(eng, Params{}, parallel.Sequential()).Conv2D(x, w, bias)
	require.NoError(t, err)

	par, err := NewWithConfig(eng, Params{}, parallel.Config{Enabled: true, NumWorkers: 4}).Conv2D(x, w, bias)
	require.NoError(t, err)

	assert.Equal(t, seq.AsFloat32(), par.AsFloat32())
}
