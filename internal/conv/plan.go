package conv

import (
	"fmt"

	"github.com/tilekit-ml/tilekit/internal/engine"
	"github.com/tilekit-ml/tilekit/internal/tensor"
)

// Default tile sizes. The channel tile matches the engine's partition width;
// the row tile is the number of output rows staged per input window.
const (
	DefaultChannelTile = 128
	DefaultRowTile     = 2
)

// Params are the fixed tile sizes a plan is built from.
// Zero values select the defaults.
type Params struct {
	ChannelTile int // C: channel-tile size for input and output channels
	RowTile     int // R: output rows per row tile
}

func (p Params) withDefaults() Params {
	if p.ChannelTile == 0 {
		p.ChannelTile = DefaultChannelTile
	}
	if p.RowTile == 0 {
		p.RowTile = DefaultRowTile
	}
	return p
}

// Plan holds the tile counts and scratch budget derived from the tensor
// shapes and tile sizes. Building a plan performs every precondition check;
// once a plan exists the compute loop nest always completes.
type Plan struct {
	Batch int
	InC   int
	H, W  int
	OutC  int
	FH    int
	FW    int
	OutH  int
	OutW  int

	C, R       int // tile sizes
	TilesCIn   int // InC / C
	TilesCOut  int // OutC / C
	TilesH     int // OutH / R
	WindowRows int // R + FH - 1

	DType tensor.DataType

	// MaxWorkers is the number of batch workers whose private scratch
	// (window + accumulator + output tile) fits the arena alongside the
	// resident weight and bias tiles.
	MaxWorkers int

	residentBytes int // preprocessed weights + bias tiles
	workerBytes   int // per-worker window + accumulator + output tile
}

// NewPlan validates the kernel preconditions and derives the tiling plan.
// Errors wrap ErrShape, ErrDivisibility or ErrCapacity.
func NewPlan(eng engine.Engine, x, w, bias *tensor.RawTensor, params Params) (*Plan, error) {
	params = params.withDefaults()

	xs, ws, bs := x.Shape(), w.Shape(), bias.Shape()
	if len(xs) != 4 {
		return nil, fmt.Errorf("%w: input must be 4D [batch,channels,H,W], got %dD", ErrShape, len(xs))
	}
	if len(ws) != 4 {
		return nil, fmt.Errorf("%w: weights must be 4D [outC,inC,fh,fw], got %dD", ErrShape, len(ws))
	}
	if len(bs) != 1 {
		return nil, fmt.Errorf("%w: bias must be 1D [outC], got %dD", ErrShape, len(bs))
	}

	dtype := x.DType()
	if dtype != tensor.Float32 && dtype != tensor.Float64 {
		return nil, fmt.Errorf("%w: unsupported dtype %s", ErrShape, dtype)
	}
	if w.DType() != dtype || bias.DType() != dtype {
		return nil, fmt.Errorf("%w: dtype mismatch input=%s weights=%s bias=%s",
			ErrShape, dtype, w.DType(), bias.DType())
	}

	batch, inC, h, width := xs[0], xs[1], xs[2], xs[3]
	outC, wInC, fh, fw := ws[0], ws[1], ws[2], ws[3]

	if wInC != inC {
		return nil, fmt.Errorf("%w: input channels %d != weight channels %d", ErrShape, inC, wInC)
	}
	if bs[0] != outC {
		return nil, fmt.Errorf("%w: bias length %d != output channels %d", ErrShape, bs[0], outC)
	}
	if fh != fw {
		return nil, fmt.Errorf("%w: filter must be square, got %dx%d", ErrShape, fh, fw)
	}

	outH := h - fh + 1
	outW := width - fw + 1
	if outH < 1 || outW < 1 {
		return nil, fmt.Errorf("%w: filter %dx%d larger than input %dx%d", ErrShape, fh, fw, h, width)
	}

	c, r := params.ChannelTile, params.RowTile
	if c <= 0 || r <= 0 {
		return nil, fmt.Errorf("%w: invalid tile sizes C=%d R=%d", ErrShape, c, r)
	}
	if c > eng.PartitionDim() {
		return nil, fmt.Errorf("%w: channel tile %d exceeds partition width %d", ErrCapacity, c, eng.PartitionDim())
	}
	if inC%c != 0 {
		return nil, fmt.Errorf("%w: input channels %d %% %d != 0", ErrDivisibility, inC, c)
	}
	if outC%c != 0 {
		return nil, fmt.Errorf("%w: output channels %d %% %d != 0", ErrDivisibility, outC, c)
	}
	if outH%r != 0 {
		return nil, fmt.Errorf("%w: output rows %d %% %d != 0", ErrDivisibility, outH, r)
	}
	if outW > eng.MaxFreeDim() {
		return nil, fmt.Errorf("%w: output width %d exceeds matmul free-axis limit %d", ErrCapacity, outW, eng.MaxFreeDim())
	}

	plan := &Plan{
		Batch:      batch,
		InC:        inC,
		H:          h,
		W:          width,
		OutC:       outC,
		FH:         fh,
		FW:         fw,
		OutH:       outH,
		OutW:       outW,
		C:          c,
		R:          r,
		TilesCIn:   inC / c,
		TilesCOut:  outC / c,
		TilesH:     outH / r,
		WindowRows: r + fh - 1,
		DType:      dtype,
	}

	esz := dtype.Size()
	weightBytes := fh * fw * plan.TilesCOut * plan.TilesCIn * c * c * esz
	stagingBytes := c * c * fh * fw * esz // weight block, freed after preprocessing
	biasBytes := plan.TilesCOut * c * esz
	plan.residentBytes = weightBytes + biasBytes
	plan.workerBytes = plan.TilesCIn*c*plan.WindowRows*width*esz + // input window
		c*plan.OutW*esz + // accumulator
		c*r*plan.OutW*esz // output tile

	capacity := eng.ScratchCapacity()
	need := plan.residentBytes + max(stagingBytes, plan.workerBytes)
	if need > capacity {
		return nil, fmt.Errorf("%w: scratch footprint %d bytes exceeds capacity %d", ErrCapacity, need, capacity)
	}
	plan.MaxWorkers = (capacity - plan.residentBytes) / plan.workerBytes

	return plan, nil
}
