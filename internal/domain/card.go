package domain

import "time"

// Card is a single question-answer entry being practiced. Cards are
// transient deck members; only review records are persisted.
type Card struct {
	Topic    string
	Question string
	Answer   string
	CardID   string
}

// ReviewRecord is one scheduling event for a (user, card) pair.
// History is append-or-update only; the engine never deletes rows.
// The canonical previous state for scheduling is the most recently
// created row for a given (user, CardID).
type ReviewRecord struct {
	ID          string
	User        string
	Topic       string
	CardID      string
	Question    string
	Answer      string
	Rating      int
	Interval    int     // days, always >= 1
	Repetitions int     // consecutive passes, >= 0
	EaseFactor  float64 // always >= 1.3
	NextReview  time.Time
	CreatedAt   time.Time
}

// Due reports whether the record's next review is at or before now.
func (r ReviewRecord) Due(now time.Time) bool {
	return !r.NextReview.After(now)
}

// DeckSource tags where a deck's cards came from. The tag decides
// end-of-deck behavior: study decks loop, due-review decks end the session.
type DeckSource string

const (
	StudyDeck     DeckSource = "study"
	DueReviewDeck DeckSource = "dueReview"
)
