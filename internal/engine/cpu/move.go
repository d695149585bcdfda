package cpu

import (
	"fmt"

	"github.com/tilekit-ml/tilekit/internal/engine"
	"github.com/tilekit-ml/tilekit/internal/tensor"
)

// Load copies a rectangular region of src into dst. The region extent is
// dst's shape right-aligned against src's rank.
func (e *Engine) Load(dst *engine.Tile, src *tensor.RawTensor, off []int) {
	if dst.DType() != src.DType() {
		panic(fmt.Sprintf("load: dtype mismatch %s vs %s", dst.DType(), src.DType()))
	}
	base := regionBase(src.Shape(), src.Strides(), off, dst.Shape(), "load")
	strides := trailingStrides(src.Strides(), dst.Rank())

	switch dst.DType() {
	case tensor.Float32:
		copyStridedF32(dst.Float32(), dst.Offset(), dst.Strides(),
			src.AsFloat32(), base, strides, dst.Shape())
	case tensor.Float64:
		copyStridedF64(dst.Float64(), dst.Offset(), dst.Strides(),
			src.AsFloat64(), base, strides, dst.Shape())
	default:
		panic(fmt.Sprintf("load: unsupported dtype %s", dst.DType()))
	}
}

// Store copies src into the rectangular region of dst at origin off.
func (e *Engine) Store(dst *tensor.RawTensor, off []int, src *engine.Tile) {
	if dst.DType() != src.DType() {
		panic(fmt.Sprintf("store: dtype mismatch %s vs %s", dst.DType(), src.DType()))
	}
	base := regionBase(dst.Shape(), dst.Strides(), off, src.Shape(), "store")
	strides := trailingStrides(dst.Strides(), src.Rank())

	switch src.DType() {
	case tensor.Float32:
		copyStridedF32(dst.AsFloat32(), base, strides,
			src.Float32(), src.Offset(), src.Strides(), src.Shape())
	case tensor.Float64:
		copyStridedF64(dst.AsFloat64(), base, strides,
			src.Float64(), src.Offset(), src.Strides(), src.Shape())
	default:
		panic(fmt.Sprintf("store: unsupported dtype %s", src.DType()))
	}
}

// Copy copies src into dst. Either side may be a strided view.
func (e *Engine) Copy(dst, src *engine.Tile) {
	if !dst.Shape().Equal(src.Shape()) {
		panic(fmt.Sprintf("copy: shape mismatch %v vs %v", dst.Shape(), src.Shape()))
	}
	if dst.DType() != src.DType() {
		panic(fmt.Sprintf("copy: dtype mismatch %s vs %s", dst.DType(), src.DType()))
	}

	switch dst.DType() {
	case tensor.Float32:
		copyStridedF32(dst.Float32(), dst.Offset(), dst.Strides(),
			src.Float32(), src.Offset(), src.Strides(), dst.Shape())
	case tensor.Float64:
		copyStridedF64(dst.Float64(), dst.Offset(), dst.Strides(),
			src.Float64(), src.Offset(), src.Strides(), dst.Shape())
	default:
		panic(fmt.Sprintf("copy: unsupported dtype %s", dst.DType()))
	}
}

// Zero overwrites every element of t with zero.
func (e *Engine) Zero(t *engine.Tile) {
	switch t.DType() {
	case tensor.Float32:
		zeroStridedF32(t.Float32(), t.Offset(), t.Strides(), t.Shape())
	case tensor.Float64:
		zeroStridedF64(t.Float64(), t.Offset(), t.Strides(), t.Shape())
	default:
		panic(fmt.Sprintf("zero: unsupported dtype %s", t.DType()))
	}
}

// regionBase validates a rectangular region and returns its element offset.
// The region extent is regionShape right-aligned against shape's rank.
func regionBase(shape tensor.Shape, strides, off []int, regionShape tensor.Shape, op string) int {
	if len(off) != len(shape) {
		panic(fmt.Sprintf("%s: origin rank %d != tensor rank %d", op, len(off), len(shape)))
	}
	if len(regionShape) > len(shape) {
		panic(fmt.Sprintf("%s: region rank %d exceeds tensor rank %d", op, len(regionShape), len(shape)))
	}

	lead := len(shape) - len(regionShape)
	base := 0
	for d := range shape {
		extent := 1
		if d >= lead {
			extent = regionShape[d-lead]
		}
		if off[d] < 0 || off[d]+extent > shape[d] {
			panic(fmt.Sprintf("%s: region [%d,%d) out of bounds for axis %d of size %d",
				op, off[d], off[d]+extent, d, shape[d]))
		}
		base += off[d] * strides[d]
	}
	return base
}

// trailingStrides returns the last n strides.
func trailingStrides(strides []int, n int) []int {
	return strides[len(strides)-n:]
}

func copyStridedF32(dst []float32, doff int, dstride []int, src []float32, soff int, sstride []int, shape tensor.Shape) {
	if len(shape) == 1 {
		n := shape[0]
		if dstride[0] == 1 && sstride[0] == 1 {
			copy(dst[doff:doff+n], src[soff:soff+n])
			return
		}
		for i := 0; i < n; i++ {
			dst[doff+i*dstride[0]] = src[soff+i*sstride[0]]
		}
		return
	}
	for i := 0; i < shape[0]; i++ {
		copyStridedF32(dst, doff+i*dstride[0], dstride[1:], src, soff+i*sstride[0], sstride[1:], shape[1:])
	}
}

func copyStridedF64(dst []float64, doff int, dstride []int, src []float64, soff int, sstride []int, shape tensor.Shape) {
	if len(shape) == 1 {
		n := shape[0]
		if dstride[0] == 1 && sstride[0] == 1 {
			copy(dst[doff:doff+n], src[soff:soff+n])
			return
		}
		for i := 0; i < n; i++ {
			dst[doff+i*dstride[0]] = src[soff+i*sstride[0]]
		}
		return
	}
	for i := 0; i < shape[0]; i++ {
		copyStridedF64(dst, doff+i*dstride[0], dstride[1:], src, soff+i*sstride[0], sstride[1:], shape[1:])
	}
}

func zeroStridedF32(data []float32, off int, strides []int, shape tensor.Shape) {
	if len(shape) == 1 {
		if strides[0] == 1 {
			clear(data[off : off+shape[0]])
			return
		}
		for i := 0; i < shape[0]; i++ {
			data[off+i*strides[0]] = 0
		}
		return
	}
	for i := 0; i < shape[0]; i++ {
		zeroStridedF32(data, off+i*strides[0], strides[1:], shape[1:])
	}
}

func zeroStridedF64(data []float64, off int, strides []int, shape tensor.Shape) {
	if len(shape) == 1 {
		if strides[0] == 1 {
			clear(data[off : off+shape[0]])
			return
		}
		for i := 0; i < shape[0]; i++ {
			data[off+i*strides[0]] = 0
		}
		return
	}
	for i := 0; i < shape[0]; i++ {
		zeroStridedF64(data, off+i*strides[0], strides[1:], shape[1:])
	}
}
