package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/conorfennell/spacedeck/internal/cardid"
	"github.com/conorfennell/spacedeck/internal/clock"
	"github.com/conorfennell/spacedeck/internal/domain"
	"github.com/conorfennell/spacedeck/internal/sm2"
)

// Session orchestrates one practice run: the deck being worked through,
// the current position and reveal state, and the rate pipeline that
// persists each answer. It is single-user and not safe for concurrent
// use; every dependency is injected, nothing is ambient.
//
// End-of-deck behavior follows the deck source. A study deck wraps back
// to the first card and stays open for repeated practice; a due-review
// deck ends the session outright.
type Session struct {
	user       string
	store      Store
	resolver   *Resolver
	reconciler *Reconciler
	clock      clock.Clock
	log        *slog.Logger

	deck     []domain.Card
	source   domain.DeckSource
	pos      int
	revealed bool
	dueCount int
}

// NewSession builds an idle session for user over the given store.
func NewSession(user string, store Store, clk clock.Clock, log *slog.Logger) *Session {
	return &Session{
		user:       user,
		store:      store,
		resolver:   NewResolver(store, clk, log),
		reconciler: NewReconciler(store, clk, log),
		clock:      clk,
		log:        log,
	}
}

// Resolver exposes the session's due-set resolver, for callers that
// need the due count or queue outside a loaded deck.
func (s *Session) Resolver() *Resolver { return s.resolver }

// User returns the user this session belongs to.
func (s *Session) User() string { return s.user }

// Active reports whether a deck is loaded.
func (s *Session) Active() bool { return len(s.deck) > 0 }

// Source returns the loaded deck's source tag.
func (s *Session) Source() domain.DeckSource { return s.source }

// DueCount returns the last known number of distinct due cards.
func (s *Session) DueCount() int { return s.dueCount }

// Progress returns the zero-based cursor and the deck size.
func (s *Session) Progress() (pos, total int) { return s.pos, len(s.deck) }

// Revealed reports whether the current card is face up.
func (s *Session) Revealed() bool { return s.revealed }

// Current returns the card under the cursor, face state untouched.
func (s *Session) Current() (domain.Card, bool) {
	if !s.Active() {
		return domain.Card{}, false
	}
	return s.deck[s.pos], true
}

// Reveal flips the current card face up. A no-op when no deck is loaded.
func (s *Session) Reveal() {
	if s.Active() {
		s.revealed = true
	}
}

// LoadStudyDeck starts a session over freshly generated cards. Cards
// missing an identifier get one derived from topic and question. The
// deck loops: it never ends the session on its own.
func (s *Session) LoadStudyDeck(ctx context.Context, cards []domain.Card) error {
	if len(cards) == 0 {
		return ErrEmptyDeck
	}
	deck := make([]domain.Card, len(cards))
	copy(deck, cards)
	for i := range deck {
		if deck[i].CardID == "" {
			deck[i].CardID = cardid.ID(deck[i].Topic, deck[i].Question)
		}
	}

	s.deck = deck
	s.source = domain.StudyDeck
	s.pos = 0
	s.revealed = false
	s.dueCount = s.resolver.CountDue(ctx, s.user)
	return nil
}

// LoadDueDeck starts a session over the user's due queue. A store
// failure propagates so the caller can tell "nothing due" apart from
// "could not find out"; genuinely nothing due is ErrNothingDue.
func (s *Session) LoadDueDeck(ctx context.Context, limit int) error {
	due, err := s.resolver.ListDue(ctx, s.user, limit)
	if err != nil {
		return fmt.Errorf("load due deck: %w", err)
	}
	if len(due) == 0 {
		return ErrNothingDue
	}

	deck := make([]domain.Card, len(due))
	for i, rec := range due {
		deck[i] = domain.Card{
			Topic:    rec.Topic,
			Question: rec.Question,
			Answer:   rec.Answer,
			CardID:   rec.CardID,
		}
	}

	s.deck = deck
	s.source = domain.DueReviewDeck
	s.pos = 0
	s.revealed = false
	s.dueCount = len(due)
	return nil
}

// Outcome reports what one rating did to the session.
type Outcome struct {
	Schedule sm2.Result
	Looped   bool // study deck wrapped back to the first card
	Ended    bool // due-review deck finished and the session closed
	DueCount int
}

// Rate grades the current card and advances the session. The pipeline
// runs strictly in order: canonical-state lookup, scheduling, persist,
// stale-row reconciliation, due-count refresh, advance. Store failures
// after scheduling are logged and the deck still advances; practice
// must not stall on backend hiccups. An invalid rating or a face-down
// card errors without advancing.
func (s *Session) Rate(ctx context.Context, rating sm2.Rating) (Outcome, error) {
	card, ok := s.Current()
	if !ok {
		return Outcome{}, ErrNoActiveDeck
	}
	if !s.revealed {
		return Outcome{}, ErrFaceDown
	}
	if !rating.IsValid() {
		return Outcome{}, fmt.Errorf("%w: got %d", sm2.ErrInvalidRating, int(rating))
	}

	// 1. Canonical previous state: most recent record, or defaults.
	// A failed lookup degrades to "no history" rather than stalling.
	var prev *sm2.State
	canonical, err := Canonical(ctx, s.store, s.user, card.CardID)
	if err != nil {
		s.log.Warn("previous state lookup failed, scheduling from defaults",
			"user", s.user, "card", card.CardID, "error", err)
	} else if canonical != nil {
		prev = &sm2.State{
			Interval:    canonical.Interval,
			Repetitions: canonical.Repetitions,
			EaseFactor:  canonical.EaseFactor,
		}
	}

	// 2. Schedule. Pure; cannot fail for a valid rating.
	res, err := sm2.Schedule(rating, prev, s.clock.Now())
	if err != nil {
		return Outcome{}, err
	}

	// 3. Persist: update the canonical row in place, or create the
	// card's first record.
	freshID := s.persist(ctx, card, canonical, res)

	// 4. Rewrite any other still-due rows for this card so they stop
	// resurfacing. Skipped when persistence failed: there is no fresh
	// row to exempt, and the next rating converges anyway.
	if freshID != "" {
		if err := s.reconciler.Reconcile(ctx, s.user, card.CardID, freshID, res); err != nil {
			s.log.Warn("stale record reconciliation failed", "user", s.user, "card", card.CardID, "error", err)
		}
	}

	// 5. Refresh the due badge. CountDue fails soft to zero.
	s.dueCount = s.resolver.CountDue(ctx, s.user)

	// 6. Advance.
	out := Outcome{Schedule: res, DueCount: s.dueCount}
	s.advance(&out)
	return out, nil
}

// persist writes the fresh schedule and returns the written row's ID,
// or "" when the store refused and the failure was swallowed.
func (s *Session) persist(ctx context.Context, card domain.Card, canonical *domain.ReviewRecord, res sm2.Result) string {
	if canonical != nil {
		if _, err := s.store.UpdateSchedule(ctx, canonical.ID, res); err != nil {
			s.log.Warn("schedule update failed, advancing anyway",
				"user", s.user, "card", card.CardID, "record", canonical.ID, "error", err)
			return ""
		}
		return canonical.ID
	}

	created, err := s.store.Create(ctx, domain.ReviewRecord{
		User:        s.user,
		Topic:       card.Topic,
		CardID:      card.CardID,
		Question:    card.Question,
		Answer:      card.Answer,
		Rating:      int(res.Rating),
		Interval:    res.Interval,
		Repetitions: res.Repetitions,
		EaseFactor:  res.EaseFactor,
		NextReview:  res.NextReview,
	})
	if err != nil {
		s.log.Warn("first review insert failed, advancing anyway",
			"user", s.user, "card", card.CardID, "error", err)
		return ""
	}
	return created.ID
}

func (s *Session) advance(out *Outcome) {
	s.revealed = false
	s.pos++
	if s.pos < len(s.deck) {
		return
	}

	switch s.source {
	case domain.StudyDeck:
		// Wrap for another lap; the session stays open.
		s.pos = 0
		out.Looped = true
	case domain.DueReviewDeck:
		// The queue is cleared: end the session and zero the badge
		// optimistically instead of waiting on another round trip.
		s.deck = nil
		s.pos = 0
		s.dueCount = 0
		out.Ended = true
		out.DueCount = 0
	}
}
