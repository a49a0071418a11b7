package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/conorfennell/spacedeck/internal/clock"
	"github.com/conorfennell/spacedeck/internal/sm2"
)

func TestReconcile(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	clk := clock.Fixed{T: now}

	fresh := sm2.Result{
		Interval:    6,
		Repetitions: 2,
		EaseFactor:  2.36,
		NextReview:  now.AddDate(0, 0, 6),
		Rating:      sm2.Good,
	}

	t.Run("rewrites stale due rows in place", func(t *testing.T) {
		store := newMemStore(now.Add(-72 * time.Hour))
		stale := store.seed(dueRecord("alice", "card-a", now.Add(-24*time.Hour)))
		future := store.seed(dueRecord("alice", "card-a", now.AddDate(0, 0, 3)))
		freshRow := store.seed(dueRecord("alice", "card-a", now.Add(-time.Hour)))
		other := store.seed(dueRecord("alice", "card-b", now.Add(-time.Hour)))

		rc := NewReconciler(store, clk, testLogger)
		if err := rc.Reconcile(ctx, "alice", "card-a", freshRow.ID, fresh); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		got, _ := store.byID(stale.ID)
		if got.Interval != fresh.Interval || got.Repetitions != fresh.Repetitions ||
			got.EaseFactor != fresh.EaseFactor || !got.NextReview.Equal(fresh.NextReview) {
			t.Errorf("Expected the stale row to carry the fresh schedule, but got %+v", got)
		}
		if got.ID != stale.ID || got.Question != stale.Question {
			t.Errorf("Expected the stale row to keep its identity, but got %+v", got)
		}
		if got.Due(now) {
			t.Error("Expected the rewritten row to no longer be due")
		}

		// The fresh row, rows not yet due, and other cards are untouched.
		if got, _ := store.byID(freshRow.ID); !got.NextReview.Equal(freshRow.NextReview) {
			t.Errorf("Expected the fresh row to be left alone, but got %+v", got)
		}
		if got, _ := store.byID(future.ID); !got.NextReview.Equal(future.NextReview) {
			t.Errorf("Expected the not-yet-due row to be left alone, but got %+v", got)
		}
		if got, _ := store.byID(other.ID); !got.NextReview.Equal(other.NextReview) {
			t.Errorf("Expected the other card's row to be left alone, but got %+v", got)
		}
	})

	t.Run("no other due rows remain after the pass", func(t *testing.T) {
		store := newMemStore(now.Add(-72 * time.Hour))
		store.seed(dueRecord("alice", "card-a", now.Add(-48*time.Hour)))
		store.seed(dueRecord("alice", "card-a", now.Add(-24*time.Hour)))
		freshRow := store.seed(dueRecord("alice", "card-a", now.Add(-time.Hour)))

		rc := NewReconciler(store, clk, testLogger)
		if err := rc.Reconcile(ctx, "alice", "card-a", freshRow.ID, fresh); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		recs, err := store.ListByCard(ctx, "alice", "card-a")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		for _, rec := range recs {
			if rec.ID != freshRow.ID && rec.Due(now) {
				t.Errorf("Expected no stale due rows after reconciliation, but %s is still due", rec.ID)
			}
		}
	})

	t.Run("query failure propagates", func(t *testing.T) {
		store := newMemStore(now)
		storeErr := errors.New("store unavailable")
		store.listErr = storeErr

		rc := NewReconciler(store, clk, testLogger)
		if err := rc.Reconcile(ctx, "alice", "card-a", "rec-0001", fresh); !errors.Is(err, storeErr) {
			t.Errorf("Expected the store error to propagate, but got %v", err)
		}
	})
}
