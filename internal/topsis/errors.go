package topsis

import "errors"

var (
	// ErrEmptyMatrix is returned when the decision matrix has no rows or no columns.
	ErrEmptyMatrix = errors.New("topsis: decision matrix must have at least one row and one column")

	// ErrRaggedMatrix is returned when rows of the decision matrix differ in length.
	ErrRaggedMatrix = errors.New("topsis: decision matrix rows differ in length")

	// ErrNonFinite is returned when a matrix cell or weight is NaN or infinite.
	ErrNonFinite = errors.New("topsis: NaN or infinite value")

	// ErrShapeMismatch is returned when weights or directions do not match the column count.
	ErrShapeMismatch = errors.New("topsis: weights and directions must match the number of criteria")

	// ErrUnknownDirection is returned for a criterion direction other than benefit or cost.
	ErrUnknownDirection = errors.New("topsis: unrecognized criterion direction")
)

// IsConfigError reports whether err is a terminal configuration error.
// Retrying a run that failed with one of these always fails the same way.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrShapeMismatch) ||
		errors.Is(err, ErrUnknownDirection) ||
		errors.Is(err, ErrEmptyMatrix) ||
		errors.Is(err, ErrRaggedMatrix) ||
		errors.Is(err, ErrNonFinite)
}
