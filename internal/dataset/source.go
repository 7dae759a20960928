package dataset

import (
	"context"
	"fmt"
	"os"

	"github.com/MikeSquared-Agency/Topsis/internal/store"
)

// Source supplies the alternatives for a ranking.
type Source interface {
	Load(ctx context.Context) (*Dataset, error)
}

// CSVSource reads a CSV file on every Load.
type CSVSource struct {
	Path             string
	IDColumn         string
	Columns          []string
	ImageURLTemplate string
}

func (s *CSVSource) Load(_ context.Context) (*Dataset, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := ReadCSV(f, s.IDColumn, s.Columns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	for i := range ds.Alternatives {
		ds.Alternatives[i].ImageURL = ImageURL(s.ImageURLTemplate, ds.Alternatives[i].Label)
	}
	return ds, nil
}

// StoreSource reads the alternative catalog. Every catalog entry must carry a
// value for each configured column. An empty catalog loads as an empty
// dataset so it can be seeded through the admin routes.
type StoreSource struct {
	Store            store.Store
	IDColumn         string
	Columns          []string
	ImageURLTemplate string
}

func (s *StoreSource) Load(ctx context.Context) (*Dataset, error) {
	alts, err := s.Store.ListAlternatives(ctx)
	if err != nil {
		return nil, err
	}
	ds := &Dataset{IDColumn: s.IDColumn, Columns: append([]string(nil), s.Columns...)}
	for _, a := range alts {
		values := make([]float64, len(s.Columns))
		for j, name := range s.Columns {
			v, ok := a.Attributes[name]
			if !ok {
				return nil, fmt.Errorf("%w: %q for alternative %q", ErrMissingColumn, name, a.Label)
			}
			values[j] = v
		}
		image := a.ImageURL
		if image == "" {
			image = ImageURL(s.ImageURLTemplate, a.Label)
		}
		ds.Alternatives = append(ds.Alternatives, Alternative{Label: a.Label, Values: values, ImageURL: image})
	}
	return ds, nil
}

// ToStore converts a dataset row into a catalog entry.
func ToStore(d *Dataset, a Alternative) *store.Alternative {
	attrs := make(map[string]float64, len(d.Columns))
	for j, name := range d.Columns {
		attrs[name] = a.Values[j]
	}
	return &store.Alternative{Label: a.Label, Attributes: attrs, ImageURL: a.ImageURL}
}
