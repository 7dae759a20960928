// Package dataset loads the alternatives a ranking is computed over.
//
// A Dataset is shared between concurrent rankings once loaded and must be
// treated as read-only. Filter and Matrix hand out fresh values.
package dataset

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrMissingColumn  = errors.New("dataset: missing column")
	ErrNonNumeric     = errors.New("dataset: non-numeric value")
	ErrDuplicateLabel = errors.New("dataset: duplicate alternative label")
	ErrNoRows         = errors.New("dataset: no alternatives")
	ErrUnknownColumn  = errors.New("dataset: unknown criterion column")
)

// Alternative is one row: a unique label and one value per Dataset column.
type Alternative struct {
	Label    string    `json:"label"`
	Values   []float64 `json:"values"`
	ImageURL string    `json:"image_url,omitempty"`
}

type Dataset struct {
	IDColumn     string        `json:"id_column"`
	Columns      []string      `json:"columns"`
	Alternatives []Alternative `json:"alternatives"`
}

// Range is the observed span of one column.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// RangeFilter keeps alternatives whose value on Criterion lies in [Min, Max].
type RangeFilter struct {
	Criterion string  `json:"criterion"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
}

func (d *Dataset) Len() int {
	return len(d.Alternatives)
}

func (d *Dataset) Labels() []string {
	out := make([]string, len(d.Alternatives))
	for i, a := range d.Alternatives {
		out[i] = a.Label
	}
	return out
}

// Matrix copies the values into a fresh row-major matrix.
func (d *Dataset) Matrix() [][]float64 {
	out := make([][]float64, len(d.Alternatives))
	for i, a := range d.Alternatives {
		out[i] = append([]float64(nil), a.Values...)
	}
	return out
}

// Column returns the index of a column, or -1.
func (d *Dataset) Column(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Find returns the alternative with the given label.
func (d *Dataset) Find(label string) (Alternative, bool) {
	for _, a := range d.Alternatives {
		if a.Label == label {
			return a, true
		}
	}
	return Alternative{}, false
}

// Ranges returns the min and max of every column. An empty dataset yields
// zero ranges.
func (d *Dataset) Ranges() []Range {
	out := make([]Range, len(d.Columns))
	for i, a := range d.Alternatives {
		for j, v := range a.Values {
			if i == 0 || v < out[j].Min {
				out[j].Min = v
			}
			if i == 0 || v > out[j].Max {
				out[j].Max = v
			}
		}
	}
	return out
}

// Filter returns a new dataset with the alternatives inside the range.
// The result may be empty.
func (d *Dataset) Filter(f RangeFilter) (*Dataset, error) {
	j := d.Column(f.Criterion)
	if j < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, f.Criterion)
	}
	out := &Dataset{IDColumn: d.IDColumn, Columns: d.Columns}
	for _, a := range d.Alternatives {
		if v := a.Values[j]; v >= f.Min && v <= f.Max {
			out.Alternatives = append(out.Alternatives, a)
		}
	}
	return out, nil
}

// Select returns a dataset restricted to the given columns, in that order.
func (d *Dataset) Select(columns []string) (*Dataset, error) {
	idx := make([]int, len(columns))
	for k, name := range columns {
		if idx[k] = d.Column(name); idx[k] < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
	}
	out := &Dataset{
		IDColumn:     d.IDColumn,
		Columns:      append([]string(nil), columns...),
		Alternatives: make([]Alternative, len(d.Alternatives)),
	}
	for i, a := range d.Alternatives {
		values := make([]float64, len(idx))
		for k, j := range idx {
			values[k] = a.Values[j]
		}
		out.Alternatives[i] = Alternative{Label: a.Label, Values: values, ImageURL: a.ImageURL}
	}
	return out, nil
}

// ImageURL fills the {label} placeholder of tmpl with the query-escaped label.
func ImageURL(tmpl, label string) string {
	if tmpl == "" {
		return ""
	}
	return strings.ReplaceAll(tmpl, "{label}", url.QueryEscape(label))
}
