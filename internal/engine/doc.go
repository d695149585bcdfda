// Package engine defines the execution-engine contract the TileKit kernels
// are written against: scratch-resident tiles with a bounded arena, and the
// load/store/transpose/matmul/broadcast-add primitives that operate on them.
//
// The model mirrors a fixed-geometry accelerator: every tile has a leading
// partition axis of at most PartitionDim elements, matrix multiplication
// contracts over the partition axis of both operands, and the moving
// operand's free axis is bounded by MaxFreeDim.
package engine
