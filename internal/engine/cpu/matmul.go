package cpu

import (
	"fmt"

	"github.com/tilekit-ml/tilekit/internal/engine"
	"github.com/tilekit-ml/tilekit/internal/tensor"
)

// MatMulAcc accumulates stationary-transposed times moving into acc:
//
//	acc[m,n] += sum_k stationary[k,m] * moving[k,n]
//
// The loop nest runs (k, m, n) so the innermost pass streams a contiguous
// row of the moving operand and the accumulator. The inner kernel is picked
// once at init based on the host's vector extensions.
func (e *Engine) MatMulAcc(acc, stationary, moving *engine.Tile) {
	if acc.Rank() != 2 || stationary.Rank() != 2 || moving.Rank() != 2 {
		panic(fmt.Sprintf("matmul: operands must be 2D, got acc=%dD stationary=%dD moving=%dD",
			acc.Rank(), stationary.Rank(), moving.Rank()))
	}

	k, m := stationary.Shape()[0], stationary.Shape()[1]
	kAlt, n := moving.Shape()[0], moving.Shape()[1]

	if k != kAlt {
		panic(fmt.Sprintf("matmul: contraction mismatch stationary [%d,%d] vs moving [%d,%d]", k, m, kAlt, n))
	}
	if acc.Shape()[0] != m || acc.Shape()[1] != n {
		panic(fmt.Sprintf("matmul: accumulator %v does not match result [%d,%d]", acc.Shape(), m, n))
	}
	if k > e.partition || m > e.partition {
		panic(fmt.Sprintf("matmul: contraction/result partition %dx%d exceeds partition limit %d", k, m, e.partition))
	}
	if n > e.maxFree {
		panic(fmt.Sprintf("matmul: moving free axis %d exceeds limit %d", n, e.maxFree))
	}
	if stationary.DType() != moving.DType() || acc.DType() != moving.DType() {
		panic(fmt.Sprintf("matmul: dtype mismatch acc=%s stationary=%s moving=%s",
			acc.DType(), stationary.DType(), moving.DType()))
	}

	switch acc.DType() {
	case tensor.Float32:
		matMulAccF32(acc, stationary, moving, k, m, n)
	case tensor.Float64:
		matMulAccF64(acc, stationary, moving, k, m, n)
	default:
		panic(fmt.Sprintf("matmul: unsupported dtype %s", acc.DType()))
	}
}

func matMulAccF32(acc, stat, mov *engine.Tile, k, m, n int) {
	a := stat.Float32()
	b := mov.Float32()
	c := acc.Float32()

	as, bs, cs := stat.Strides(), mov.Strides(), acc.Strides()
	ao, bo, co := stat.Offset(), mov.Offset(), acc.Offset()

	for kk := 0; kk < k; kk++ {
		brow := bo + kk*bs[0]
		for mm := 0; mm < m; mm++ {
			alpha := a[ao+kk*as[0]+mm*as[1]]
			if alpha == 0 {
				continue
			}
			crow := co + mm*cs[0]
			if bs[1] == 1 && cs[1] == 1 {
				axpyF32(alpha, b[brow:brow+n], c[crow:crow+n])
			} else {
				for nn := 0; nn < n; nn++ {
					c[crow+nn*cs[1]] += alpha * b[brow+nn*bs[1]]
				}
			}
		}
	}
}

func matMulAccF64(acc, stat, mov *engine.Tile, k, m, n int) {
	a := stat.Float64()
	b := mov.Float64()
	c := acc.Float64()

	as, bs, cs := stat.Strides(), mov.Strides(), acc.Strides()
	ao, bo, co := stat.Offset(), mov.Offset(), acc.Offset()

	for kk := 0; kk < k; kk++ {
		brow := bo + kk*bs[0]
		for mm := 0; mm < m; mm++ {
			alpha := a[ao+kk*as[0]+mm*as[1]]
			if alpha == 0 {
				continue
			}
			crow := co + mm*cs[0]
			if bs[1] == 1 && cs[1] == 1 {
				axpyF64(alpha, b[brow:brow+n], c[crow:crow+n])
			} else {
				for nn := 0; nn < n; nn++ {
					c[crow+nn*cs[1]] += alpha * b[brow+nn*bs[1]]
				}
			}
		}
	}
}

// axpyF32 computes y += alpha * x over contiguous rows.
func axpyF32(alpha float32, x, y []float32) {
	if wideVectors {
		n := len(y) &^ 7
		for i := 0; i < n; i += 8 {
			y[i] += alpha * x[i]
			y[i+1] += alpha * x[i+1]
			y[i+2] += alpha * x[i+2]
			y[i+3] += alpha * x[i+3]
			y[i+4] += alpha * x[i+4]
			y[i+5] += alpha * x[i+5]
			y[i+6] += alpha * x[i+6]
			y[i+7] += alpha * x[i+7]
		}
		for i := n; i < len(y); i++ {
			y[i] += alpha * x[i]
		}
		return
	}
	for i := range y {
		y[i] += alpha * x[i]
	}
}

// axpyF64 computes y += alpha * x over contiguous rows.
func axpyF64(alpha float64, x, y []float64) {
	if wideVectors {
		n := len(y) &^ 3
		for i := 0; i < n; i += 4 {
			y[i] += alpha * x[i]
			y[i+1] += alpha * x[i+1]
			y[i+2] += alpha * x[i+2]
			y[i+3] += alpha * x[i+3]
		}
		for i := n; i < len(y); i++ {
			y[i] += alpha * x[i]
		}
		return
	}
	for i := range y {
		y[i] += alpha * x[i]
	}
}
