package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Alternative is one catalog entry: a label plus raw criterion values keyed
// by criterion name.
type Alternative struct {
	ID         uuid.UUID          `json:"id"`
	Label      string             `json:"label"`
	Attributes map[string]float64 `json:"attributes"`
	ImageURL   string             `json:"image_url,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// Store is the alternative catalog. It feeds the decision engine and never
// holds computed rankings.
type Store interface {
	ListAlternatives(ctx context.Context) ([]*Alternative, error)
	// GetAlternative returns nil, nil when no alternative has the label.
	GetAlternative(ctx context.Context, label string) (*Alternative, error)
	UpsertAlternative(ctx context.Context, a *Alternative) error
	// DeleteAlternative reports whether a row was removed.
	DeleteAlternative(ctx context.Context, label string) (bool, error)
	Close() error
}
