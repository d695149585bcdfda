// Package cpu implements the TileKit execution engine in pure Go.
package cpu

import (
	"fmt"

	"github.com/tilekit-ml/tilekit/internal/engine"
)

// Default geometry. Partition and moving-operand limits follow the fixed
// tile geometry of the matmul unit the kernels are planned against; the
// scratch capacity bounds every resident tile of a run.
const (
	DefaultPartitionDim = 128
	DefaultMaxFreeDim   = 512
	DefaultScratchBytes = 24 << 20 // 24 MiB
)

// Engine is the CPU reference engine.
type Engine struct {
	partition int
	maxFree   int
	scratch   int
}

// Compile-time check that Engine implements engine.Engine.
var _ engine.Engine = (*Engine)(nil)

// New creates a CPU engine with the default geometry.
func New() *Engine {
	return NewWithGeometry(DefaultPartitionDim, DefaultMaxFreeDim, DefaultScratchBytes)
}

// NewWithGeometry creates a CPU engine with explicit limits. Used by tests
// that exercise capacity planning against smaller geometries.
func NewWithGeometry(partition, maxFree, scratchBytes int) *Engine {
	if partition <= 0 || maxFree <= 0 || scratchBytes <= 0 {
		panic(fmt.Sprintf("cpu: invalid geometry partition=%d maxFree=%d scratch=%d",
			partition, maxFree, scratchBytes))
	}
	return &Engine{
		partition: partition,
		maxFree:   maxFree,
		scratch:   scratchBytes,
	}
}

// Name returns the engine name.
func (e *Engine) Name() string {
	return "cpu"
}

// PartitionDim returns the maximum partition-axis extent.
func (e *Engine) PartitionDim() int {
	return e.partition
}

// MaxFreeDim returns the maximum moving-operand free-axis extent.
func (e *Engine) MaxFreeDim() int {
	return e.maxFree
}

// ScratchCapacity returns the scratch arena capacity in bytes.
func (e *Engine) ScratchCapacity() int {
	return e.scratch
}

// NewArena creates a scratch arena bounded by the engine's capacity.
func (e *Engine) NewArena() *engine.Arena {
	return engine.NewArena(e.scratch)
}
