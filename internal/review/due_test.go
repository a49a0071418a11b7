package review

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/conorfennell/spacedeck/internal/clock"
	"github.com/conorfennell/spacedeck/internal/domain"
)

var (
	resolverNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	testLogger  = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func dueRecord(user, cardID string, nextReview time.Time) domain.ReviewRecord {
	return domain.ReviewRecord{
		User:        user,
		Topic:       "Go",
		CardID:      cardID,
		Question:    "Q " + cardID,
		Answer:      "A " + cardID,
		Rating:      3,
		Interval:    1,
		Repetitions: 1,
		EaseFactor:  2.36,
		NextReview:  nextReview,
	}
}

func TestCountDue(t *testing.T) {
	ctx := context.Background()
	clk := clock.Fixed{T: resolverNow}

	t.Run("counts distinct cards", func(t *testing.T) {
		store := newMemStore(resolverNow.Add(-48 * time.Hour))
		// Three due rows over two distinct cards.
		store.seed(dueRecord("alice", "card-a", resolverNow.Add(-time.Hour)))
		store.seed(dueRecord("alice", "card-a", resolverNow.Add(-2*time.Hour)))
		store.seed(dueRecord("alice", "card-b", resolverNow))
		// Not yet due, and another user's card: neither counts.
		store.seed(dueRecord("alice", "card-c", resolverNow.Add(time.Hour)))
		store.seed(dueRecord("bob", "card-d", resolverNow.Add(-time.Hour)))

		r := NewResolver(store, clk, testLogger)
		if got := r.CountDue(ctx, "alice"); got != 2 {
			t.Errorf("Expected due count to be 2, but got %d", got)
		}
	})

	t.Run("fails soft to zero on store error", func(t *testing.T) {
		store := newMemStore(resolverNow)
		store.seed(dueRecord("alice", "card-a", resolverNow.Add(-time.Hour)))
		store.dueErr = errors.New("store unavailable")

		r := NewResolver(store, clk, testLogger)
		if got := r.CountDue(ctx, "alice"); got != 0 {
			t.Errorf("Expected a failing count to report 0, but got %d", got)
		}
	})
}

func TestListDue(t *testing.T) {
	ctx := context.Background()
	clk := clock.Fixed{T: resolverNow}

	t.Run("dedups by card keeping earliest row", func(t *testing.T) {
		store := newMemStore(resolverNow.Add(-48 * time.Hour))
		// Five due rows, two of them for the same card.
		store.seed(dueRecord("alice", "card-a", resolverNow.Add(-4*time.Hour)))
		store.seed(dueRecord("alice", "card-a", resolverNow.Add(-time.Hour)))
		store.seed(dueRecord("alice", "card-b", resolverNow.Add(-3*time.Hour)))
		store.seed(dueRecord("alice", "card-c", resolverNow.Add(-2*time.Hour)))
		store.seed(dueRecord("alice", "card-d", resolverNow.Add(-30*time.Minute)))

		r := NewResolver(store, clk, testLogger)
		due, err := r.ListDue(ctx, "alice", 10)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(due) != 4 {
			t.Fatalf("Expected 4 deduplicated records, but got %d", len(due))
		}

		seen := map[string]bool{}
		for _, rec := range due {
			if seen[rec.CardID] {
				t.Errorf("Expected no duplicate card IDs, but %s appears twice", rec.CardID)
			}
			seen[rec.CardID] = true
		}

		// Earliest first, and card-a represented by its earliest row.
		if due[0].CardID != "card-a" || !due[0].NextReview.Equal(resolverNow.Add(-4*time.Hour)) {
			t.Errorf("Expected the earliest card-a row first, but got %s due %v", due[0].CardID, due[0].NextReview)
		}
	})

	t.Run("truncates to limit", func(t *testing.T) {
		store := newMemStore(resolverNow.Add(-48 * time.Hour))
		store.seed(dueRecord("alice", "card-a", resolverNow.Add(-3*time.Hour)))
		store.seed(dueRecord("alice", "card-b", resolverNow.Add(-2*time.Hour)))
		store.seed(dueRecord("alice", "card-c", resolverNow.Add(-time.Hour)))

		r := NewResolver(store, clk, testLogger)
		due, err := r.ListDue(ctx, "alice", 2)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(due) != 2 {
			t.Fatalf("Expected 2 records, but got %d", len(due))
		}
		if due[0].CardID != "card-a" || due[1].CardID != "card-b" {
			t.Errorf("Expected the two earliest cards, but got %s and %s", due[0].CardID, due[1].CardID)
		}
	})

	t.Run("equal due times break ties by record ID", func(t *testing.T) {
		store := newMemStore(resolverNow.Add(-48 * time.Hour))
		same := resolverNow.Add(-time.Hour)
		first := store.seed(dueRecord("alice", "card-a", same))
		second := store.seed(dueRecord("alice", "card-b", same))

		r := NewResolver(store, clk, testLogger)
		due, err := r.ListDue(ctx, "alice", 0)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(due) != 2 || due[0].ID != first.ID || due[1].ID != second.ID {
			t.Errorf("Expected creation order %s, %s but got %+v", first.ID, second.ID, due)
		}
	})

	t.Run("store failure propagates", func(t *testing.T) {
		store := newMemStore(resolverNow)
		storeErr := errors.New("store unavailable")
		store.dueErr = storeErr

		r := NewResolver(store, clk, testLogger)
		if _, err := r.ListDue(ctx, "alice", 10); !errors.Is(err, storeErr) {
			t.Errorf("Expected the store error to propagate, but got %v", err)
		}
	})
}
