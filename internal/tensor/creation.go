package tensor

import (
	"fmt"
	"math"
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
func Zeros[T DType](shape Shape) *RawTensor {
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy))
	if err != nil {
		panic(err) // Shape validation should prevent this
	}
	// Data is already zero-initialized by make()
	return raw
}

// FromSlice creates a tensor from a flat slice in row-major order.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy))
	if err != nil {
		return nil, err
	}
	if len(data) != raw.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, raw.NumElements())
	}

	switch any(dummy).(type) {
	case float32:
		copy(raw.AsFloat32(), any(data).([]float32))
	case float64:
		copy(raw.AsFloat64(), any(data).([]float64))
	}
	return raw, nil
}

// Randn creates a tensor with values drawn from a normal distribution (mean=0, std=1)
// using the supplied source, so callers control reproducibility.
// Uses Box-Muller transform for generating normal distribution.
func Randn[T DType](shape Shape, rng *rand.Rand) *RawTensor {
	raw := Zeros[T](shape)

	switch raw.DType() {
	case Float32:
		data := raw.AsFloat32()
		for i := 0; i < len(data); i += 2 {
			u1 := rng.Float64()
			u2 := rng.Float64()
			z0 := math.Sqrt(-2.0*math.Log(u1)) * math.Cos(2.0*math.Pi*u2)
			z1 := math.Sqrt(-2.0*math.Log(u1)) * math.Sin(2.0*math.Pi*u2)
			data[i] = float32(z0)
			if i+1 < len(data) {
				data[i+1] = float32(z1)
			}
		}
	case Float64:
		data := raw.AsFloat64()
		for i := 0; i < len(data); i += 2 {
			u1 := rng.Float64()
			u2 := rng.Float64()
			z0 := math.Sqrt(-2.0*math.Log(u1)) * math.Cos(2.0*math.Pi*u2)
			z1 := math.Sqrt(-2.0*math.Log(u1)) * math.Sin(2.0*math.Pi*u2)
			data[i] = z0
			if i+1 < len(data) {
				data[i+1] = z1
			}
		}
	}
	return raw
}
