package ranking

import (
	"fmt"

	"github.com/MikeSquared-Agency/Topsis/internal/criteria"
	"github.com/MikeSquared-Agency/Topsis/internal/dataset"
	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

// RadarProfile places one alternative on every criterion axis. Values lie in
// [0, 1] where 1 is the best value observed in the dataset.
type RadarProfile struct {
	Label    string `json:"label"`
	ImageURL string `json:"image_url,omitempty"`
	Axes     []Axis `json:"axes"`
}

type Axis struct {
	Criterion string           `json:"criterion"`
	Direction topsis.Direction `json:"direction"`
	Raw       float64          `json:"raw"`
	Value     float64          `json:"value"`
}

// Profile builds the radar profile of label. Each criterion is min-max
// rescaled against the range of ds, inverted for cost criteria. A criterion
// on which every alternative is equal maps to 1.
//
// Pass the unfiltered dataset so profiles stay comparable across filters.
func Profile(ds *dataset.Dataset, set criteria.Set, label string) (*RadarProfile, error) {
	alt, ok := ds.Find(label)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlternative, label)
	}
	ranges := ds.Ranges()

	p := &RadarProfile{Label: alt.Label, ImageURL: alt.ImageURL, Axes: make([]Axis, 0, len(set))}
	for _, c := range set {
		j := ds.Column(c.Name)
		if j < 0 {
			return nil, fmt.Errorf("%w: %q", dataset.ErrMissingColumn, c.Name)
		}
		raw := alt.Values[j]
		p.Axes = append(p.Axes, Axis{
			Criterion: c.Name,
			Direction: c.Direction,
			Raw:       raw,
			Value:     rescale(raw, ranges[j], c.Direction),
		})
	}
	return p, nil
}

func rescale(v float64, r dataset.Range, d topsis.Direction) float64 {
	width := r.Max - r.Min
	if width == 0 {
		return 1
	}
	out := (v - r.Min) / width
	if d == topsis.Cost {
		out = 1 - out
	}
	return out
}
