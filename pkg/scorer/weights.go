package scorer

import (
	"fmt"
	"math"
)

// Weights holds the raw points per change class and the decay constant
// used to saturate the total.
type Weights struct {
	Removed      int     `json:"removed" yaml:"removed" koanf:"removed"`
	Structural   int     `json:"structural" yaml:"structural" koanf:"structural"`
	Incompatible int     `json:"incompatible" yaml:"incompatible" koanf:"incompatible"`
	Compatible   int     `json:"compatible" yaml:"compatible" koanf:"compatible"`
	Added        int     `json:"added" yaml:"added" koanf:"added"`
	Decay        float64 `json:"decay" yaml:"decay" koanf:"decay"`
}

// DefaultWeights returns the standard severity table.
func DefaultWeights() Weights {
	return Weights{
		Removed:      40,
		Structural:   35,
		Incompatible: 25,
		Compatible:   15,
		Added:        5,
		Decay:        50,
	}
}

// Validate rejects negative points and a non-positive or non-finite decay.
func (w Weights) Validate() error {
	points := []struct {
		name  string
		value int
	}{
		{"removed", w.Removed},
		{"structural", w.Structural},
		{"incompatible", w.Incompatible},
		{"compatible", w.Compatible},
		{"added", w.Added},
	}

	for _, p := range points {
		if p.value < 0 {
			return fmt.Errorf("weight %s must not be negative, got %d", p.name, p.value)
		}
	}

	if w.Decay <= 0 || math.IsNaN(w.Decay) || math.IsInf(w.Decay, 0) {
		return fmt.Errorf("decay must be a positive finite number, got %v", w.Decay)
	}

	return nil
}
