package review

import (
	"context"
	"log/slog"

	"github.com/conorfennell/spacedeck/internal/clock"
	"github.com/conorfennell/spacedeck/internal/domain"
)

// DefaultDueLimit caps how many due cards ListDue returns when the
// caller does not say otherwise.
const DefaultDueLimit = 50

// Resolver answers "what is due for this user right now". Several
// records can exist for one logical card, so both operations collapse
// rows by card ID.
type Resolver struct {
	store Store
	clock clock.Clock
	log   *slog.Logger
}

// NewResolver builds a Resolver. The logger is required; pass
// slog.Default() if in doubt.
func NewResolver(store Store, clk clock.Clock, log *slog.Logger) *Resolver {
	return &Resolver{store: store, clock: clk, log: log}
}

// CountDue returns the number of distinct due cards for user. It feeds
// a badge, not a correctness-critical path, so a store failure is logged
// and reported as zero rather than surfaced.
func (r *Resolver) CountDue(ctx context.Context, user string) int {
	recs, err := r.store.ListDueBefore(ctx, user, r.clock.Now())
	if err != nil {
		r.log.Warn("due count unavailable, reporting zero", "user", user, "error", err)
		return 0
	}

	seen := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		seen[rec.CardID] = struct{}{}
	}
	return len(seen)
}

// ListDue returns the due queue for user: records with NextReview at or
// before now, earliest first, one per card ID (the earliest-due row per
// card wins), truncated to limit. limit <= 0 means DefaultDueLimit.
//
// Unlike CountDue, a store failure propagates: the caller must be able
// to tell "nothing due" apart from "could not determine the due set".
func (r *Resolver) ListDue(ctx context.Context, user string, limit int) ([]domain.ReviewRecord, error) {
	if limit <= 0 {
		limit = DefaultDueLimit
	}

	recs, err := r.store.ListDueBefore(ctx, user, r.clock.Now())
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(recs))
	due := make([]domain.ReviewRecord, 0, min(len(recs), limit))
	for _, rec := range recs {
		if _, ok := seen[rec.CardID]; ok {
			continue
		}
		seen[rec.CardID] = struct{}{}
		due = append(due, rec)
		if len(due) == limit {
			break
		}
	}
	return due, nil
}
