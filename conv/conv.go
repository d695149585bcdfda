// Copyright 2025 TileKit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package conv exposes the tiled 2D convolution kernel.
//
// Example:
//
//	out, err := conv.Conv2D(x, w, bias)
//
// or, bound to an explicit engine and tile sizes:
//
//	k := conv.NewWithConfig(cpu.New(), conv.Params{ChannelTile: 64, RowTile: 2}, parallel.DefaultConfig())
//	out, err := k.Conv2D(x, w, bias)
package conv

import (
	"github.com/tilekit-ml/tilekit/internal/conv"
	"github.com/tilekit-ml/tilekit/internal/engine"
	"github.com/tilekit-ml/tilekit/internal/parallel"
	"github.com/tilekit-ml/tilekit/internal/tensor"
)

// Engine is the execution-engine contract kernels are bound to.
type Engine = engine.Engine

// Kernel is a tiled convolution kernel bound to an execution engine.
type Kernel = conv.Kernel

// Params are the fixed tile sizes a kernel plans with.
type Params = conv.Params

// Plan holds the tile counts and scratch budget derived for one invocation.
type Plan = conv.Plan

// ParallelConfig controls batch-level parallelism.
type ParallelConfig = parallel.Config

// Default tile sizes.
const (
	DefaultChannelTile = conv.DefaultChannelTile
	DefaultRowTile     = conv.DefaultRowTile
)

// Precondition errors, matched with errors.Is.
var (
	ErrShape        = conv.ErrShape
	ErrDivisibility = conv.ErrDivisibility
	ErrCapacity     = conv.ErrCapacity
)

// New creates a kernel with default tile sizes and parallelism.
func New(eng Engine) *Kernel {
	return conv.New(eng)
}

// NewWithConfig creates a kernel with explicit tile sizes and parallelism.
func NewWithConfig(eng Engine, params Params, par ParallelConfig) *Kernel {
	return conv.NewWithConfig(eng, params, par)
}

// Conv2D runs the kernel on the default CPU engine with default tile sizes.
func Conv2D(x, w, bias *tensor.RawTensor) (*tensor.RawTensor, error) {
	return conv.Conv2D(x, w, bias)
}

// NewPlan validates the kernel preconditions and derives the tiling plan
// without running the kernel.
func NewPlan(eng Engine, x, w, bias *tensor.RawTensor, params Params) (*Plan, error) {
	return conv.NewPlan(eng, x, w, bias, params)
}

// DefaultParallel returns the default parallel configuration.
func DefaultParallel() ParallelConfig {
	return parallel.DefaultConfig()
}

// SequentialParallel returns a configuration that disables parallelism.
func SequentialParallel() ParallelConfig {
	return parallel.Sequential()
}
