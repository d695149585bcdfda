// Copyright 2025 TileKit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for TileKit's main-memory tensors.
//
// RawTensor is a contiguous row-major buffer with runtime type information.
// Kernels read inputs from and write outputs to RawTensors; all intermediate
// state lives in engine scratch tiles.
//
// Example:
//
//	x := tensor.Zeros[float32](tensor.Shape{1, 128, 6, 6})
//	data := x.AsFloat32()
package tensor

import (
	"math/rand"

	"github.com/tilekit-ml/tilekit/internal/tensor"
)

// DType is a constraint for supported tensor element types.
type DType = tensor.DType

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// RawTensor is the low-level main-memory tensor representation.
type RawTensor = tensor.RawTensor

// NewRaw creates a new zero-initialized tensor with the given shape and type.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// Zeros creates a tensor filled with zeros.
func Zeros[T DType](shape Shape) *RawTensor {
	return tensor.Zeros[T](shape)
}

// FromSlice creates a tensor from a flat slice in row-major order.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}

// Randn creates a tensor with values drawn from a normal distribution using
// the supplied source.
func Randn[T DType](shape Shape, rng *rand.Rand) *RawTensor {
	return tensor.Randn[T](shape, rng)
}
