package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/conorfennell/spacedeck/internal/clock"
	"github.com/conorfennell/spacedeck/internal/sm2"
)

// Reconciler rewrites stale due rows after a card is rated. Earlier
// sessions can leave extra records for the same logical card; without
// this pass each of them would keep resurfacing in the due set even
// though the user just reviewed the card.
type Reconciler struct {
	store Store
	clock clock.Clock
	log   *slog.Logger
}

// NewReconciler builds a Reconciler over the given store.
func NewReconciler(store Store, clk clock.Clock, log *slog.Logger) *Reconciler {
	return &Reconciler{store: store, clock: clk, log: log}
}

// Reconcile overwrites the scheduling fields of every record for
// (user, cardID) that is still due, other than freshID, with res. Rows
// keep their identity: this is a field overwrite, never a merge or a
// delete. A partial failure stops the pass and reports the first error;
// rows left stale simply surface again and are caught on the next
// rating of the card.
func (c *Reconciler) Reconcile(ctx context.Context, user, cardID, freshID string, res sm2.Result) error {
	recs, err := c.store.ListByCard(ctx, user, cardID)
	if err != nil {
		return fmt.Errorf("list records for card %s: %w", cardID, err)
	}

	now := c.clock.Now()
	for _, rec := range recs {
		if rec.ID == freshID || !rec.Due(now) {
			continue
		}
		if _, err := c.store.UpdateSchedule(ctx, rec.ID, res); err != nil {
			return fmt.Errorf("rewrite stale record %s: %w", rec.ID, err)
		}
		c.log.Debug("rewrote stale due record", "user", user, "card", cardID, "record", rec.ID)
	}
	return nil
}
