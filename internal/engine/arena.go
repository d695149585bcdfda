package engine

import (
	"fmt"
	"sync"

	"github.com/tilekit-ml/tilekit/internal/tensor"
)

// Arena is a fixed-capacity scratch-memory accountant. Every resident tile
// is charged against the capacity; Alloc fails with ErrScratchFull once the
// budget is exhausted. Concurrent workers may allocate and free tiles from
// the same arena.
type Arena struct {
	mu       sync.Mutex
	capacity int
	used     int
}

// NewArena creates an arena with the given capacity in bytes.
func NewArena(capacity int) *Arena {
	if capacity <= 0 {
		panic(fmt.Sprintf("arena: invalid capacity %d", capacity))
	}
	return &Arena{capacity: capacity}
}

// Capacity returns the arena's fixed capacity in bytes.
func (a *Arena) Capacity() int {
	return a.capacity
}

// Used returns the bytes currently charged to resident tiles.
func (a *Arena) Used() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.used
}

// Alloc reserves a zero-initialized contiguous tile with the given shape.
func (a *Arena) Alloc(shape tensor.Shape, dtype tensor.DataType) (*Tile, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadTile, err)
	}

	size := shape.NumElements() * dtype.Size()

	a.mu.Lock()
	if a.used+size > a.capacity {
		need := a.used + size
		a.mu.Unlock()
		return nil, fmt.Errorf("%w: need %d bytes of %d", ErrScratchFull, need, a.capacity)
	}
	a.used += size
	a.mu.Unlock()

	return &Tile{
		data:   make([]byte, size),
		dtype:  dtype,
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		size:   size,
	}, nil
}

// Free returns a tile's bytes to the arena. Freeing a view is an error;
// only root tiles returned by Alloc carry an accounting charge.
func (a *Arena) Free(t *Tile) {
	if t == nil || t.size == 0 {
		panic("arena: free of a view or already-freed tile")
	}

	a.mu.Lock()
	a.used -= t.size
	a.mu.Unlock()

	t.size = 0
	t.data = nil
}
