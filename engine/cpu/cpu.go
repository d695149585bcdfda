// Copyright 2025 TileKit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu exposes the pure-Go reference execution engine.
package cpu

import (
	"github.com/tilekit-ml/tilekit/internal/engine"
	internalcpu "github.com/tilekit-ml/tilekit/internal/engine/cpu"
)

// Engine is the CPU execution engine.
type Engine = internalcpu.Engine

// Compile-time check that Engine implements the engine contract.
var _ engine.Engine = (*Engine)(nil)

// Default geometry of the CPU engine.
const (
	DefaultPartitionDim = internalcpu.DefaultPartitionDim
	DefaultMaxFreeDim   = internalcpu.DefaultMaxFreeDim
	DefaultScratchBytes = internalcpu.DefaultScratchBytes
)

// New creates a CPU engine with the default geometry.
func New() *Engine {
	return internalcpu.New()
}

// NewWithGeometry creates a CPU engine with explicit partition width,
// matmul free-axis limit and scratch capacity.
func NewWithGeometry(partition, maxFree, scratchBytes int) *Engine {
	return internalcpu.NewWithGeometry(partition, maxFree, scratchBytes)
}

// VectorExtensions returns a human-readable summary of the SIMD extensions
// detected on this host.
func VectorExtensions() string {
	return internalcpu.VectorExtensions()
}
