// Package ranking turns a dataset and a set of criteria into a ranked
// report. It owns everything around the engine: filtering, weight
// overrides, rank assignment, presentation data, events and metrics.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MikeSquared-Agency/Topsis/internal/criteria"
	"github.com/MikeSquared-Agency/Topsis/internal/dataset"
	"github.com/MikeSquared-Agency/Topsis/internal/hermes"
	"github.com/MikeSquared-Agency/Topsis/internal/metrics"
	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

var (
	ErrNoAlternatives     = errors.New("ranking: no alternatives match the selection")
	ErrUnknownAlternative = errors.New("ranking: unknown alternative")
	ErrInvalidTopN        = errors.New("ranking: top_n must not be negative")
)

// DisplayPlaces is the number of decimals of Entry.DisplayScore.
const DisplayPlaces = 4

// IsInvalidRequest reports whether err was caused by the request rather
// than by the data or the service.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, criteria.ErrUnknownCriterion) ||
		errors.Is(err, criteria.ErrWeightOutOfRange) ||
		errors.Is(err, dataset.ErrUnknownColumn) ||
		errors.Is(err, ErrInvalidTopN)
}

// Options tunes the presentation part of a report.
type Options struct {
	DefaultTopN int
	PodiumSize  int
}

// Request is one ranking query. The zero value ranks every alternative with
// the configured weights.
type Request struct {
	Weights map[string]float64   `json:"weights,omitempty"`
	Filter  *dataset.RangeFilter `json:"filter,omitempty"`
	TopN    int                  `json:"top_n,omitempty"`
}

type Entry struct {
	Rank         int     `json:"rank"`
	Label        string  `json:"label"`
	Score        float64 `json:"score"`
	DisplayScore string  `json:"display_score"`
	ImageURL     string  `json:"image_url,omitempty"`
	DistPositive float64 `json:"distance_positive"`
	DistNegative float64 `json:"distance_negative"`

	// ParetoOptimal is set when no other selected alternative is at least as
	// good on every criterion.
	ParetoOptimal bool `json:"pareto_optimal"`
}

// LabelledMatrix is an intermediate matrix with its row and column labels.
type LabelledMatrix struct {
	Rows    []string    `json:"rows"`
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

type Report struct {
	RunID    uuid.UUID            `json:"run_id"`
	Criteria criteria.Set         `json:"criteria"`
	Filter   *dataset.RangeFilter `json:"filter,omitempty"`

	// Entries holds every scored alternative ordered by rank.
	Entries []Entry       `json:"entries"`
	Top     []Entry       `json:"top"`
	Podium  []Entry       `json:"podium"`
	Winner  *RadarProfile `json:"winner"`

	Normalized    LabelledMatrix `json:"normalized"`
	Weighted      LabelledMatrix `json:"weighted"`
	IdealPositive []float64      `json:"ideal_positive"`
	IdealNegative []float64      `json:"ideal_negative"`

	Approximate bool     `json:"approximate"`
	Notes       []string `json:"notes,omitempty"`

	Shown int `json:"shown"`
	Total int `json:"total"`
}

type Service struct {
	source   dataset.Source
	criteria criteria.Set
	engine   *topsis.Engine
	hermes   hermes.Client
	opts     Options
	logger   *slog.Logger
}

func New(source dataset.Source, set criteria.Set, engine *topsis.Engine, h hermes.Client, opts Options, logger *slog.Logger) *Service {
	if h == nil {
		h = hermes.NopClient{}
	}
	if opts.DefaultTopN <= 0 {
		opts.DefaultTopN = 10
	}
	if opts.PodiumSize <= 0 {
		opts.PodiumSize = 3
	}
	return &Service{
		source:   source,
		criteria: set,
		engine:   engine,
		hermes:   h,
		opts:     opts,
		logger:   logger,
	}
}

func (s *Service) Criteria() criteria.Set {
	out := make(criteria.Set, len(s.criteria))
	copy(out, s.criteria)
	return out
}

// Dataset loads the full dataset restricted to the configured criteria.
func (s *Service) Dataset(ctx context.Context) (*dataset.Dataset, error) {
	full, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return full.Select(s.criteria.Names())
}

// Profile returns the radar profile of one alternative against the full dataset.
func (s *Service) Profile(ctx context.Context, label string) (*RadarProfile, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return Profile(ds, s.criteria, label)
}

// Evaluate runs the service's engine on a caller-supplied matrix.
func (s *Service) Evaluate(rows [][]float64, weights []float64, directions []string) (*Evaluation, error) {
	return Evaluate(s.engine, rows, weights, directions)
}

// Rank scores the selected alternatives and builds the report. A failed
// run is logged, counted and announced before the error is returned.
func (s *Service) Rank(ctx context.Context, req Request) (*Report, error) {
	runID := uuid.New()
	started := time.Now()

	report, res, err := s.rank(ctx, runID, req)
	if err != nil {
		metrics.ObserveRanking(outcome(err), started, 0, 0, 0)
		s.logger.Warn("ranking failed", "run_id", runID, "error", err)
		s.publish(hermes.SubjectRankingFailed(runID.String()), hermes.RankingFailedEvent{
			RunID:       runID.String(),
			Error:       err.Error(),
			ConfigError: IsInvalidRequest(err) || topsis.IsConfigError(err),
			Timestamp:   time.Now().UTC(),
		})
		return nil, err
	}

	metrics.ObserveRanking(metrics.OutcomeOK, started, report.Shown, len(res.DegenerateRows), len(res.ZeroColumns))
	winner := report.Entries[0]
	s.logger.Info("ranking computed",
		"run_id", runID,
		"alternatives", report.Shown,
		"total", report.Total,
		"winner", winner.Label,
		"score", winner.Score,
		"approximate", report.Approximate,
	)
	s.publish(hermes.SubjectRankingCompleted(runID.String()), hermes.RankingCompletedEvent{
		RunID:        runID.String(),
		Winner:       winner.Label,
		WinnerScore:  winner.Score,
		Alternatives: report.Shown,
		Total:        report.Total,
		Weights:      weightMap(report.Criteria),
		Approximate:  report.Approximate,
		DurationMs:   float64(time.Since(started).Microseconds()) / 1000,
		Timestamp:    time.Now().UTC(),
	})
	return report, nil
}

func (s *Service) rank(ctx context.Context, runID uuid.UUID, req Request) (*Report, *topsis.Result, error) {
	if req.TopN < 0 {
		return nil, nil, ErrInvalidTopN
	}
	set, err := s.criteria.WithWeights(req.Weights)
	if err != nil {
		return nil, nil, err
	}

	full, err := s.Dataset(ctx)
	if err != nil {
		return nil, nil, err
	}
	selected := full
	if req.Filter != nil {
		if selected, err = full.Filter(*req.Filter); err != nil {
			return nil, nil, err
		}
	}
	if selected.Len() == 0 {
		return nil, nil, ErrNoAlternatives
	}

	x, err := topsis.NewMatrix(selected.Matrix())
	if err != nil {
		return nil, nil, err
	}
	res, err := s.engine.Run(x, set.Weights(), set.Directions())
	if err != nil {
		return nil, nil, err
	}

	labels := selected.Labels()
	names := set.Names()
	ranks := Rank(res.Scores)
	frontier := Frontier(selected.Matrix(), set.Directions())
	entries := make([]Entry, 0, len(res.Scores))
	for _, i := range Order(res.Scores) {
		entries = append(entries, Entry{
			Rank:          ranks[i],
			Label:         labels[i],
			Score:         res.Scores[i],
			DisplayScore:  decimal.NewFromFloat(res.Scores[i]).StringFixed(DisplayPlaces),
			ImageURL:      selected.Alternatives[i].ImageURL,
			DistPositive:  res.DistPositive[i],
			DistNegative:  res.DistNegative[i],
			ParetoOptimal: frontier[i],
		})
	}

	topN := req.TopN
	if topN == 0 {
		topN = s.opts.DefaultTopN
	}

	report := &Report{
		RunID:         runID,
		Criteria:      set,
		Filter:        req.Filter,
		Entries:       entries,
		Top:           entries[:min(topN, len(entries))],
		Podium:        entries[:min(s.opts.PodiumSize, len(entries))],
		Normalized:    LabelledMatrix{Rows: labels, Columns: names, Values: topsis.Rows(res.Normalized)},
		Weighted:      LabelledMatrix{Rows: labels, Columns: names, Values: topsis.Rows(res.Weighted)},
		IdealPositive: res.IdealPositive,
		IdealNegative: res.IdealNegative,
		Approximate:   res.Approximate(),
		Notes:         notes(res, names, labels),
		Shown:         selected.Len(),
		Total:         full.Len(),
	}

	// The winner is profiled against the full dataset, not the selection.
	if report.Winner, err = Profile(full, set, entries[0].Label); err != nil {
		s.logger.Warn("winner profile unavailable", "run_id", runID, "error", err)
	}
	return report, res, nil
}

func (s *Service) publish(subject string, event interface{}) {
	if err := s.hermes.Publish(subject, event); err != nil {
		s.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

func notes(res *topsis.Result, names, labels []string) []string {
	var out []string
	for _, j := range res.ZeroColumns {
		out = append(out, fmt.Sprintf("criterion %q is zero for every alternative and was left unnormalized", names[j]))
	}
	for _, i := range res.DegenerateRows {
		out = append(out, fmt.Sprintf("score of %q is approximate: it coincides with both ideal solutions", labels[i]))
	}
	return out
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrNoAlternatives):
		return metrics.OutcomeEmpty
	case IsInvalidRequest(err), topsis.IsConfigError(err):
		return metrics.OutcomeConfigError
	default:
		return metrics.OutcomeError
	}
}

func weightMap(set criteria.Set) map[string]float64 {
	out := make(map[string]float64, len(set))
	for _, c := range set {
		out[c.Name] = c.Weight
	}
	return out
}
