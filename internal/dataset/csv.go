package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ReadCSV parses a header-first CSV. idColumn names the label column and
// columns the numeric criterion columns to keep, in matrix order. Other
// columns are ignored.
func ReadCSV(r io.Reader, idColumn string, columns []string) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}

	idPos, ok := pos[idColumn]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, idColumn)
	}
	colPos := make([]int, len(columns))
	for k, name := range columns {
		p, ok := pos[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		colPos[k] = p
	}

	ds := &Dataset{IDColumn: idColumn, Columns: append([]string(nil), columns...)}
	seen := make(map[string]bool)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		label := strings.TrimSpace(rec[idPos])
		if label == "" {
			return nil, fmt.Errorf("line %d: empty %s", line, idColumn)
		}
		if seen[label] {
			return nil, fmt.Errorf("%w: %q on line %d", ErrDuplicateLabel, label, line)
		}
		seen[label] = true

		values := make([]float64, len(colPos))
		for k, p := range colPos {
			v, err := parseValue(rec[p])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %q: %q", ErrNonNumeric, line, columns[k], rec[p])
			}
			values[k] = v
		}
		ds.Alternatives = append(ds.Alternatives, Alternative{Label: label, Values: values})
	}
	if len(ds.Alternatives) == 0 {
		return nil, ErrNoRows
	}
	return ds, nil
}

func parseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}
