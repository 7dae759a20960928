package hermes

import "time"

// RankingCompletedEvent summarises a finished ranking. The full report is
// returned to the caller only.
type RankingCompletedEvent struct {
	RunID        string             `json:"run_id"`
	Winner       string             `json:"winner"`
	WinnerScore  float64            `json:"winner_score"`
	Alternatives int                `json:"alternatives"`
	Total        int                `json:"total"`
	Weights      map[string]float64 `json:"weights"`
	Approximate  bool               `json:"approximate"`
	DurationMs   float64            `json:"duration_ms"`
	Timestamp    time.Time          `json:"timestamp"`
}

type RankingFailedEvent struct {
	RunID       string    `json:"run_id"`
	Error       string    `json:"error"`
	ConfigError bool      `json:"config_error"`
	Timestamp   time.Time `json:"timestamp"`
}

// CatalogUpdatedEvent is published after the alternative catalog changes.
// Subscribers drop any cached dataset.
type CatalogUpdatedEvent struct {
	Label     string    `json:"label,omitempty"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	CatalogActionUpserted = "upserted"
	CatalogActionDeleted  = "deleted"
	CatalogActionImported = "imported"
)
