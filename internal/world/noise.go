package world

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// NoiseField maps coordinates to simplex noise in roughly [-1,1].
// It is stateless after construction and safe for concurrent use.
type NoiseField struct {
	noise opensimplex.Noise
}

// NewNoiseField seeds a noise field.
func NewNoiseField(seed int64) *NoiseField {
	return &NoiseField{noise: opensimplex.New(seed)}
}

// Simplex2 samples 2D noise at (x, z).
func (f *NoiseField) Simplex2(x, z float64) float64 {
	return f.noise.Eval2(x, z)
}

// Simplex3 samples 3D noise at (x, y, z).
func (f *NoiseField) Simplex3(x, y, z float64) float64 {
	return f.noise.Eval3(x, y, z)
}
