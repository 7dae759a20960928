package topsis

import (
	"fmt"
	"strings"
)

// Direction says whether higher or lower raw values are preferred for a criterion.
type Direction string

const (
	Benefit Direction = "benefit"
	Cost    Direction = "cost"
)

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	return d == Benefit || d == Cost
}

// ParseDirection maps a label to a Direction. Matching ignores case and
// surrounding whitespace.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
	return d, nil
}

// UnmarshalText lets directions be decoded from YAML and JSON labels.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
