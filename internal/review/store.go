// Package review is the spaced-repetition review engine: it decides when
// each card must next be shown, resolves the pool of currently due cards,
// and orchestrates practice sessions. Persistence is behind the Store
// interface; the engine stays agnostic to the implementation.
package review

import (
	"context"
	"time"

	"github.com/conorfennell/spacedeck/internal/domain"
	"github.com/conorfennell/spacedeck/internal/sm2"
)

// Store is the persistence contract the engine consumes. Each call is
// independently atomic at the store level; the engine never relies on a
// transaction spanning calls.
type Store interface {
	// Create inserts a new review record and returns it with its
	// assigned ID and creation time filled in.
	Create(ctx context.Context, rec domain.ReviewRecord) (domain.ReviewRecord, error)

	// UpdateSchedule overwrites the scheduling fields (rating, interval,
	// repetitions, ease factor, next review) of an existing record,
	// preserving its identity and everything else.
	UpdateSchedule(ctx context.Context, id string, res sm2.Result) (domain.ReviewRecord, error)

	// ListByCard returns every record for (user, cardID), most recently
	// created first. An empty slice means the card has no history.
	ListByCard(ctx context.Context, user, cardID string) ([]domain.ReviewRecord, error)

	// ListDueBefore returns every record for user with NextReview <= t,
	// ascending by NextReview. Records sharing a NextReview are ordered
	// ascending by ID; IDs are creation-ordered, so the tie-break is
	// deterministic.
	ListDueBefore(ctx context.Context, user string, t time.Time) ([]domain.ReviewRecord, error)
}

// Canonical returns the most recently created record for (user, cardID),
// or nil when the card has never been rated. A missing history is not an
// error: scheduling falls back to defaults.
func Canonical(ctx context.Context, s Store, user, cardID string) (*domain.ReviewRecord, error) {
	recs, err := s.ListByCard(ctx, user, cardID)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	rec := recs[0]
	return &rec, nil
}
