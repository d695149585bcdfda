package engine

import "errors"

// Engine error categories. Callers match with errors.Is.
var (
	// ErrScratchFull reports that an allocation would exceed the arena's
	// fixed scratch capacity.
	ErrScratchFull = errors.New("scratch capacity exceeded")

	// ErrBadTile reports a tile whose geometry is unusable by a primitive
	// (rank, partition size, or dtype).
	ErrBadTile = errors.New("invalid tile geometry")
)
