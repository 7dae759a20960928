package criteria

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

// Bounds of the per-criterion weight a caller may pick when overriding the
// configured weights.
const (
	MinSliderWeight = 1
	MaxSliderWeight = 5
)

var (
	ErrNoCriteria       = errors.New("criteria: at least one criterion is required")
	ErrDuplicateName    = errors.New("criteria: duplicate criterion name")
	ErrUnknownCriterion = errors.New("criteria: unknown criterion")
	ErrWeightOutOfRange = errors.New("criteria: weight out of range")
)

// Criterion is one column of the decision matrix.
type Criterion struct {
	Name      string           `json:"name" yaml:"name"`
	Weight    float64          `json:"weight" yaml:"weight"`
	Direction topsis.Direction `json:"direction" yaml:"direction"`
}

// Set is an ordered list of criteria. Order fixes the column order of the
// decision matrix.
type Set []Criterion

// Default returns the smartphone criteria used when nothing is configured.
func Default() Set {
	return Set{
		{Name: "Price (million IDR)", Weight: 5, Direction: topsis.Cost},
		{Name: "Camera Score (1-100)", Weight: 4, Direction: topsis.Benefit},
		{Name: "Battery (mAh)", Weight: 4, Direction: topsis.Benefit},
		{Name: "Weight (grams)", Weight: 3, Direction: topsis.Cost},
		{Name: "Performance Score", Weight: 5, Direction: topsis.Benefit},
	}
}

// Validate checks names, directions and weights.
func (s Set) Validate() error {
	if len(s) == 0 {
		return ErrNoCriteria
	}
	seen := make(map[string]bool, len(s))
	for i, c := range s {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return fmt.Errorf("criterion %d: empty name", i)
		}
		if seen[name] {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		seen[name] = true
		if !c.Direction.Valid() {
			return fmt.Errorf("criterion %q: %w: %q", name, topsis.ErrUnknownDirection, c.Direction)
		}
		if math.IsNaN(c.Weight) || math.IsInf(c.Weight, 0) || c.Weight <= 0 {
			return fmt.Errorf("criterion %q: weight must be positive, got %v", name, c.Weight)
		}
	}
	return nil
}

func (s Set) Names() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = c.Name
	}
	return out
}

func (s Set) Weights() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Weight
	}
	return out
}

func (s Set) Directions() []topsis.Direction {
	out := make([]topsis.Direction, len(s))
	for i, c := range s {
		out[i] = c.Direction
	}
	return out
}

// Index returns the position of the named criterion, or -1.
func (s Set) Index(name string) int {
	for i, c := range s {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// WithWeights returns a copy of s with the named weights replaced.
// Overrides must lie in [MinSliderWeight, MaxSliderWeight]. Directions are
// fixed properties of a criterion and cannot be overridden.
func (s Set) WithWeights(overrides map[string]float64) (Set, error) {
	out := make(Set, len(s))
	copy(out, s)
	for name, w := range overrides {
		i := out.Index(name)
		if i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCriterion, name)
		}
		if math.IsNaN(w) || w < MinSliderWeight || w > MaxSliderWeight {
			return nil, fmt.Errorf("%w: %q=%v, must be between %d and %d",
				ErrWeightOutOfRange, name, w, MinSliderWeight, MaxSliderWeight)
		}
		out[i].Weight = w
	}
	return out, nil
}
