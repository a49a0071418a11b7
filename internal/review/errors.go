package review

import "errors"

// Sentinel errors for the review package. Check with errors.Is.
var (
	ErrEmptyDeck    = errors.New("review: deck has no cards")
	ErrNoActiveDeck = errors.New("review: no deck loaded")
	ErrNothingDue   = errors.New("review: no cards due")
	ErrFaceDown     = errors.New("review: card has not been revealed")
)
