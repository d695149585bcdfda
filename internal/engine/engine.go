package engine

import "github.com/tilekit-ml/tilekit/internal/tensor"

// Engine is the execution-engine contract the kernels depend on.
//
// Geometry methods expose the fixed hardware-like limits a tiling plan is
// validated against. Data-movement and compute primitives operate on tiles;
// they panic on geometry misuse (programmer error) because all shape and
// capacity preconditions are checked at plan time.
type Engine interface {
	// PartitionDim returns the maximum extent of a tile's partition axis.
	PartitionDim() int

	// MaxFreeDim returns the maximum free-axis extent of a matmul moving
	// operand (and therefore of an accumulator row).
	MaxFreeDim() int

	// ScratchCapacity returns the scratch arena capacity in bytes.
	ScratchCapacity() int

	// NewArena creates a scratch arena bounded by ScratchCapacity.
	NewArena() *Arena

	// Load copies a rectangular region of src into dst. The region extent is
	// dst's shape right-aligned against src's rank (leading extents 1) and
	// its origin is off, one coordinate per src axis.
	Load(dst *Tile, src *tensor.RawTensor, off []int)

	// Store copies src into the rectangular region of dst at origin off,
	// the inverse of Load.
	Store(dst *tensor.RawTensor, off []int, src *Tile)

	// Copy copies src into dst. Shapes and dtypes must match; either side
	// may be a strided view.
	Copy(dst, src *Tile)

	// Zero overwrites every element of t with zero.
	Zero(t *Tile)

	// Transpose writes the transpose of 2D tile src into dst.
	Transpose(dst, src *Tile)

	// MatMulAcc accumulates stationary-transposed times moving into acc:
	//
	//	acc[m,n] += sum_k stationary[k,m] * moving[k,n]
	//
	// The contraction runs over the partition axis of both operands.
	// acc must be [M,N], stationary [K,M], moving [K,N], with K and M at
	// most PartitionDim and N at most MaxFreeDim.
	MatMulAcc(acc, stationary, moving *Tile)

	// BroadcastAdd adds bias[p] to every free-axis element of partition p.
	// bias must be [P] or [P,1] with P equal to dst's partition extent.
	BroadcastAdd(dst, bias *Tile)

	// Name returns the engine name.
	Name() string
}
