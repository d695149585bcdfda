// Package conv implements a tiled 2D convolution kernel on top of the
// TileKit execution engine.
//
// The kernel computes the valid-mode cross-correlation of a batched
// [batch, inC, H, W] input against a [outC, inC, fh, fw] filter bank plus a
// per-output-channel bias, using matrix-multiply accumulation over fixed
// channel and row tiles instead of direct nested convolution loops.
// Stride 1, no padding, square filters only.
package conv

import (
	"fmt"

	"github.com/tilekit-ml/tilekit/internal/engine"
	"github.com/tilekit-ml/tilekit/internal/engine/cpu"
	"github.com/tilekit-ml/tilekit/internal/parallel"
	"github.com/tilekit-ml/tilekit/internal/tensor"
)

// Kernel is a tiled convolution kernel bound to an execution engine.
type Kernel struct {
	eng    engine.Engine
	params Params
	par    parallel.Config
}

// New creates a kernel with default tile sizes and parallelism.
func New(eng engine.Engine) *Kernel {
	return NewWithConfig(eng, Params{}, parallel.DefaultConfig())
}

// NewWithConfig creates a kernel with explicit tile sizes and parallelism.
func NewWithConfig(eng engine.Engine, params Params, par parallel.Config) *Kernel {
	return &Kernel{eng: eng, params: params.withDefaults(), par: par}
}

// Conv2D computes out[b,o,y,x] = bias[o] + sum_{c,i,j} x[b,c,y+i,x+j] * w[o,c,i,j]
// and returns a newly allocated [batch, outC, outH, outW] tensor of x's dtype,
// where outH = H-fh+1 and outW = W-fw+1.
//
// All preconditions are validated before any scratch is allocated; on error
// no output is materialized. Errors wrap ErrShape, ErrDivisibility or
// ErrCapacity.
//
// The loop nest runs batch → row tile → output-channel tile → row → tap ×
// input-channel tile: the staged input window is reused by every
// output-channel tile, and the preprocessed weights by every batch item and
// row tile. Batch items are independent and run on parallel workers, each
// with its own window and accumulator; weights and bias tiles are shared
// read-only.
func (k *Kernel) Conv2D(x, w, bias *tensor.RawTensor) (*tensor.RawTensor, error) {
	plan, err := NewPlan(k.eng, x, w, bias, k.params)
	if err != nil {
		return nil, fmt.Errorf("conv2d: %w", err)
	}

	out, err := tensor.NewRaw(tensor.Shape{plan.Batch, plan.OutC, plan.OutH, plan.OutW}, plan.DType)
	if err != nil {
		return nil, fmt.Errorf("conv2d: allocate output: %w", err)
	}

	arena := k.eng.NewArena()

	weights, err := preprocessWeights(k.eng, arena, w, plan)
	if err != nil {
		return nil, fmt.Errorf("conv2d: %w", err)
	}
	biasTiles, err := loadBiasTiles(k.eng, arena, bias, plan)
	if err != nil {
		return nil, fmt.Errorf("conv2d: %w", err)
	}

	workers := 1
	if k.par.Enabled {
		workers = min(k.par.NumWorkers, plan.MaxWorkers)
		workers = max(workers, 1)
	}

	err = parallel.ForChunked(plan.Batch, workers, func(start, end int) error {
		win, err := newInputWindow(arena, plan)
		if err != nil {
			return err
		}
		defer win.free(arena)

		acc, err := arena.Alloc(tensor.Shape{plan.C, plan.OutW}, plan.DType)
		if err != nil {
			return fmt.Errorf("accumulator tile: %w", err)
		}
		defer arena.Free(acc)

		outTile, err := arena.Alloc(tensor.Shape{plan.C, plan.R, plan.OutW}, plan.DType)
		if err != nil {
			return fmt.Errorf("output tile: %w", err)
		}
		defer arena.Free(outTile)

		for b := start; b < end; b++ {
			for t := 0; t < plan.TilesH; t++ {
				win.stage(k.eng, x, plan, b, t)
				for oc := 0; oc < plan.TilesCOut; oc++ {
					for r := 0; r < plan.R; r++ {
						accumulateRow(k.eng, weights, win, acc, plan, oc, r)
						k.eng.Copy(outTile.Index(1, r), acc)
					}
					finishTile(k.eng, out, outTile, biasTiles[oc], plan, b, oc, t)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("conv2d: %w", err)
	}

	return out, nil
}

// Conv2D runs the kernel on the default CPU engine with default tile sizes.
func Conv2D(x, w, bias *tensor.RawTensor) (*tensor.RawTensor, error) {
	return New(cpu.New()).Conv2D(x, w, bias)
}
