package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

func TestDefaultIsValid(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	assert.Len(t, s, 5)
	assert.Equal(t, []float64{5, 4, 4, 3, 5}, s.Weights())
	assert.Equal(t, []topsis.Direction{topsis.Cost, topsis.Benefit, topsis.Benefit, topsis.Cost, topsis.Benefit}, s.Directions())
	assert.Equal(t, "Price (million IDR)", s.Names()[0])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		set  Set
		want error
	}{
		{"empty", Set{}, ErrNoCriteria},
		{"duplicate", Set{{Name: "a", Weight: 1, Direction: topsis.Cost}, {Name: "a", Weight: 1, Direction: topsis.Cost}}, ErrDuplicateName},
		{"bad direction", Set{{Name: "a", Weight: 1, Direction: "up"}}, topsis.ErrUnknownDirection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.set.Validate(), tt.want)
		})
	}

	assert.Error(t, Set{{Name: " ", Weight: 1, Direction: topsis.Cost}}.Validate())
	assert.Error(t, Set{{Name: "a", Weight: 0, Direction: topsis.Cost}}.Validate())
	assert.Error(t, Set{{Name: "a", Weight: -2, Direction: topsis.Benefit}}.Validate())
}

func TestIndex(t *testing.T) {
	s := Default()
	assert.Equal(t, 2, s.Index("Battery (mAh)"))
	assert.Equal(t, -1, s.Index("Color"))
}

func TestWithWeights(t *testing.T) {
	s := Default()
	out, err := s.WithWeights(map[string]float64{"Battery (mAh)": 1, "Price (million IDR)": 2})
	require.NoError(t, err)

	assert.Equal(t, []float64{2, 4, 1, 3, 5}, out.Weights())
	assert.Equal(t, []float64{5, 4, 4, 3, 5}, s.Weights(), "original must be untouched")
	assert.Equal(t, s.Directions(), out.Directions())
}

func TestWithWeightsErrors(t *testing.T) {
	s := Default()

	_, err := s.WithWeights(map[string]float64{"Color": 3})
	assert.ErrorIs(t, err, ErrUnknownCriterion)

	_, err = s.WithWeights(map[string]float64{"Battery (mAh)": 0})
	assert.ErrorIs(t, err, ErrWeightOutOfRange)

	_, err = s.WithWeights(map[string]float64{"Battery (mAh)": 6})
	assert.ErrorIs(t, err, ErrWeightOutOfRange)
}
