package cpu

import (
	"fmt"

	"github.com/tilekit-ml/tilekit/internal/engine"
	"github.com/tilekit-ml/tilekit/internal/tensor"
)

// Transpose writes the transpose of 2D tile src into dst.
func (e *Engine) Transpose(dst, src *engine.Tile) {
	if dst.Rank() != 2 || src.Rank() != 2 {
		panic(fmt.Sprintf("transpose: tiles must be 2D, got dst=%dD src=%dD", dst.Rank(), src.Rank()))
	}
	m, n := src.Shape()[0], src.Shape()[1]
	if dst.Shape()[0] != n || dst.Shape()[1] != m {
		panic(fmt.Sprintf("transpose: dst %v does not match src %v transposed", dst.Shape(), src.Shape()))
	}
	if dst.DType() != src.DType() {
		panic(fmt.Sprintf("transpose: dtype mismatch %s vs %s", dst.DType(), src.DType()))
	}

	switch src.DType() {
	case tensor.Float32:
		d, s := dst.Float32(), src.Float32()
		ds, ss := dst.Strides(), src.Strides()
		do, so := dst.Offset(), src.Offset()
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				d[do+j*ds[0]+i*ds[1]] = s[so+i*ss[0]+j*ss[1]]
			}
		}
	case tensor.Float64:
		d, s := dst.Float64(), src.Float64()
		ds, ss := dst.Strides(), src.Strides()
		do, so := dst.Offset(), src.Offset()
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				d[do+j*ds[0]+i*ds[1]] = s[so+i*ss[0]+j*ss[1]]
			}
		}
	default:
		panic(fmt.Sprintf("transpose: unsupported dtype %s", src.DType()))
	}
}
