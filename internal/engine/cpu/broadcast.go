package cpu

import (
	"fmt"

	"github.com/tilekit-ml/tilekit/internal/engine"
	"github.com/tilekit-ml/tilekit/internal/tensor"
)

// BroadcastAdd adds bias[p] to every free-axis element of partition p.
// The broadcast runs along the partition axis only; spatial axes all
// receive the same per-partition scalar.
func (e *Engine) BroadcastAdd(dst, bias *engine.Tile) {
	if dst.Rank() < 1 {
		panic("broadcast-add: dst must have a partition axis")
	}
	if bias.Rank() != 1 && !(bias.Rank() == 2 && bias.Shape()[1] == 1) {
		panic(fmt.Sprintf("broadcast-add: bias must be [P] or [P,1], got %v", bias.Shape()))
	}
	p := dst.Shape()[0]
	if bias.Shape()[0] != p {
		panic(fmt.Sprintf("broadcast-add: bias partitions %d != dst partitions %d", bias.Shape()[0], p))
	}
	if dst.DType() != bias.DType() {
		panic(fmt.Sprintf("broadcast-add: dtype mismatch %s vs %s", dst.DType(), bias.DType()))
	}

	switch dst.DType() {
	case tensor.Float32:
		b := bias.Float32()
		for i := 0; i < p; i++ {
			part := dst.Index(0, i)
			addScalarStridedF32(dst.Float32(), part.Offset(), part.Strides(), part.Shape(),
				b[bias.Offset()+i*bias.Strides()[0]])
		}
	case tensor.Float64:
		b := bias.Float64()
		for i := 0; i < p; i++ {
			part := dst.Index(0, i)
			addScalarStridedF64(dst.Float64(), part.Offset(), part.Strides(), part.Shape(),
				b[bias.Offset()+i*bias.Strides()[0]])
		}
	default:
		panic(fmt.Sprintf("broadcast-add: unsupported dtype %s", dst.DType()))
	}
}

func addScalarStridedF32(data []float32, off int, strides []int, shape tensor.Shape, v float32) {
	if len(shape) == 0 {
		data[off] += v
		return
	}
	if len(shape) == 1 {
		for i := 0; i < shape[0]; i++ {
			data[off+i*strides[0]] += v
		}
		return
	}
	for i := 0; i < shape[0]; i++ {
		addScalarStridedF32(data, off+i*strides[0], strides[1:], shape[1:], v)
	}
}

func addScalarStridedF64(data []float64, off int, strides []int, shape tensor.Shape, v float64) {
	if len(shape) == 0 {
		data[off] += v
		return
	}
	if len(shape) == 1 {
		for i := 0; i < shape[0]; i++ {
			data[off+i*strides[0]] += v
		}
		return
	}
	for i := 0; i < shape[0]; i++ {
		addScalarStridedF64(data, off+i*strides[0], strides[1:], shape[1:], v)
	}
}
