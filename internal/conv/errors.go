package conv

import "errors"

// Kernel precondition errors. All are detected before any compute; callers
// match with errors.Is.
var (
	// ErrShape reports a dimension mismatch between input, weights and bias,
	// or an unsupported tensor geometry (non-square filter, empty output).
	ErrShape = errors.New("shape mismatch")

	// ErrDivisibility reports a dimension that does not divide evenly into
	// the fixed tile sizes.
	ErrDivisibility = errors.New("dimension not divisible by tile size")

	// ErrCapacity reports a tensor that exceeds the engine's fixed scratch
	// or matmul geometry.
	ErrCapacity = errors.New("engine capacity exceeded")
)
