package worldgen

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Noise composition constants. Multiple octaves of decreasing amplitude
// and increasing frequency are summed so low-frequency artifacts do not
// dominate the terrain.
const (
	baseFrequency = 0.05
	noiseOctaves  = 4
	persistence   = 0.6
	lacunarity    = 2.0
)

// NoiseField is a seed-pure, lazily evaluated 2D scalar field in [0, 1].
// Samples depend only on (x, y, seed), so the field is restartable and
// never materialized in full.
type NoiseField struct {
	noise opensimplex.Noise
}

// NewNoiseField creates a noise field for the given seed.
func NewNoiseField(seed int64) *NoiseField {
	return &NoiseField{noise: opensimplex.NewNormalized(seed)}
}

// Sample evaluates the multi-octave field at grid coordinates (x, y).
// The result is normalized back into [0, 1].
func (f *NoiseField) Sample(x, y float64) float64 {
	total := 0.0
	amplitude := 1.0
	frequency := baseFrequency
	norm := 0.0

	for i := 0; i < noiseOctaves; i++ {
		total += f.noise.Eval2(x*frequency, y*frequency) * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}

	return total / norm
}
