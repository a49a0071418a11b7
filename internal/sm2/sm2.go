// Package sm2 implements the SuperMemo-2 scheduling algorithm: given a
// 1-4 recall rating and a card's previous memory state, it produces the
// next interval, consecutive-pass count, ease factor, and due timestamp.
// Scheduling is a pure function of its inputs; all I/O lives elsewhere.
package sm2

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Rating is the user's response to a card review.
type Rating int

const (
	Again Rating = 1 // failed to recall
	Hard  Rating = 2 // recalled with serious difficulty
	Good  Rating = 3 // recalled with some effort
	Easy  Rating = 4 // recalled effortlessly
)

var ratingNames = map[Rating]string{
	Again: "Again",
	Hard:  "Hard",
	Good:  "Good",
	Easy:  "Easy",
}

// IsValid reports whether r is a valid rating (Again through Easy).
func (r Rating) IsValid() bool {
	return r >= Again && r <= Easy
}

// Passing reports whether the rating counts as a successful recall.
func (r Rating) Passing() bool {
	return r >= Good
}

// String returns the rating's name, or "Rating(n)" for invalid values.
func (r Rating) String() string {
	if name, ok := ratingNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// ErrInvalidRating is returned when a rating outside 1-4 is supplied.
// Check with errors.Is.
var ErrInvalidRating = errors.New("sm2: rating out of range 1-4")

// MinEaseFactor is the floor the ease factor is clamped to. There is no
// upper bound.
const MinEaseFactor = 1.3

// State is a card's memory state going into a review.
type State struct {
	Interval    int     // days until next review, >= 1
	Repetitions int     // consecutive passing reviews, >= 0
	EaseFactor  float64 // interval growth multiplier, >= 1.3
}

// DefaultState is the state assumed for a card that has never been
// reviewed.
func DefaultState() State {
	return State{Interval: 1, Repetitions: 0, EaseFactor: 2.5}
}

// Result is the outcome of scheduling one review.
type Result struct {
	Interval    int
	Repetitions int
	EaseFactor  float64
	NextReview  time.Time
	Rating      Rating
}

// State returns the Result's memory state, suitable as the previous
// state for a subsequent Schedule call.
func (r Result) State() State {
	return State{Interval: r.Interval, Repetitions: r.Repetitions, EaseFactor: r.EaseFactor}
}

// Schedule applies SM-2 to one review. A nil prev means the card has no
// history and defaults are used. The next review lands interval calendar
// days after now, in UTC.
func Schedule(rating Rating, prev *State, now time.Time) (Result, error) {
	if !rating.IsValid() {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidRating, int(rating))
	}

	state := DefaultState()
	if prev != nil {
		state = *prev
	}

	var repetitions, interval int
	if !rating.Passing() {
		// A failed recall restarts the ladder.
		repetitions = 0
		interval = 1
	} else {
		repetitions = state.Repetitions + 1
		switch repetitions {
		case 1:
			interval = 1
		case 2:
			interval = 6
		default:
			interval = int(math.Round(float64(state.Interval) * state.EaseFactor))
		}
	}

	// The ease update applies on every rating, pass or fail.
	q := float64(rating)
	ease := state.EaseFactor + (0.1 - (4-q)*(0.08+(4-q)*0.02))
	if ease < MinEaseFactor {
		ease = MinEaseFactor
	}

	return Result{
		Interval:    interval,
		Repetitions: repetitions,
		EaseFactor:  ease,
		NextReview:  now.UTC().AddDate(0, 0, interval),
		Rating:      rating,
	}, nil
}
