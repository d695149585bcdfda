package engine

import (
	"fmt"
	"unsafe"

	"github.com/tilekit-ml/tilekit/internal/tensor"
)

// Tile is a scratch-resident N-dimensional buffer. The leading axis is the
// partition axis; the remaining axes are free axes laid out row-major.
//
// Tiles support zero-copy views via Index and Narrow: a view shares the
// backing buffer and carries its own shape, strides and offset. Primitives
// accept strided views wherever the original load would otherwise have to
// materialize a copy.
type Tile struct {
	data   []byte
	dtype  tensor.DataType
	shape  tensor.Shape
	stride []int // element strides
	offset int   // element offset into data
	size   int   // backing size in bytes (root tiles only, for arena accounting)
}

// Shape returns the tile's logical shape.
func (t *Tile) Shape() tensor.Shape {
	return t.shape
}

// DType returns the tile's data type.
func (t *Tile) DType() tensor.DataType {
	return t.dtype
}

// Strides returns the tile's element strides.
func (t *Tile) Strides() []int {
	return t.stride
}

// Offset returns the view's element offset into the backing buffer.
func (t *Tile) Offset() int {
	return t.offset
}

// Rank returns the number of axes.
func (t *Tile) Rank() int {
	return len(t.shape)
}

// NumElements returns the number of logical elements in the view.
func (t *Tile) NumElements() int {
	return t.shape.NumElements()
}

// IsContiguous reports whether the view covers its backing buffer densely
// in row-major order starting at offset 0.
func (t *Tile) IsContiguous() bool {
	if t.offset != 0 {
		return false
	}
	want := t.shape.ComputeStrides()
	for i := range want {
		if t.stride[i] != want[i] {
			return false
		}
	}
	return true
}

// Float32 returns the whole backing buffer as []float32. Views index into it
// using Offset and Strides. Panics if the dtype is not Float32.
func (t *Tile) Float32() []float32 {
	if t.dtype != tensor.Float32 {
		panic(fmt.Sprintf("tile dtype is %s, not float32", t.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy access into arena memory
	return unsafe.Slice((*float32)(unsafe.Pointer(&t.data[0])), len(t.data)/4)
}

// Float64 returns the whole backing buffer as []float64.
// Panics if the dtype is not Float64.
func (t *Tile) Float64() []float64 {
	if t.dtype != tensor.Float64 {
		panic(fmt.Sprintf("tile dtype is %s, not float64", t.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy access into arena memory
	return unsafe.Slice((*float64)(unsafe.Pointer(&t.data[0])), len(t.data)/8)
}

// Index returns a view with axis dim fixed at position i. The resulting
// tile has one axis fewer than the receiver.
func (t *Tile) Index(dim, i int) *Tile {
	if dim < 0 || dim >= len(t.shape) {
		panic(fmt.Sprintf("index: invalid axis %d for %dD tile", dim, len(t.shape)))
	}
	if i < 0 || i >= t.shape[dim] {
		panic(fmt.Sprintf("index: position %d out of range [0,%d)", i, t.shape[dim]))
	}

	shape := make(tensor.Shape, 0, len(t.shape)-1)
	stride := make([]int, 0, len(t.stride)-1)
	for d := range t.shape {
		if d == dim {
			continue
		}
		shape = append(shape, t.shape[d])
		stride = append(stride, t.stride[d])
	}
	return &Tile{
		data:   t.data,
		dtype:  t.dtype,
		shape:  shape,
		stride: stride,
		offset: t.offset + i*t.stride[dim],
	}
}

// Narrow returns a view restricted to [start, start+n) along axis dim.
func (t *Tile) Narrow(dim, start, n int) *Tile {
	if dim < 0 || dim >= len(t.shape) {
		panic(fmt.Sprintf("narrow: invalid axis %d for %dD tile", dim, len(t.shape)))
	}
	if start < 0 || n <= 0 || start+n > t.shape[dim] {
		panic(fmt.Sprintf("narrow: range [%d,%d) out of bounds for axis of size %d",
			start, start+n, t.shape[dim]))
	}

	shape := t.shape.Clone()
	shape[dim] = n
	return &Tile{
		data:   t.data,
		dtype:  t.dtype,
		shape:  shape,
		stride: append([]int(nil), t.stride...),
		offset: t.offset + start*t.stride[dim],
	}
}
