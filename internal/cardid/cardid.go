// Package cardid derives the stable identifier that joins review history
// across sessions for "the same" logical card.
//
// The identifier is a truncated base64 encoding, not a digest, so two
// cards whose encoded "topic-question" strings share a 15-character
// prefix collide. It is also derived from the question text verbatim:
// a reworded question is a new card with fresh history.
package cardid

import "encoding/base64"

// Length is the number of characters kept from the base64 encoding.
const Length = 15

// ID returns the deterministic short identifier for a card.
func ID(topic, question string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(topic + "-" + question))
	if len(encoded) > Length {
		return encoded[:Length]
	}
	return encoded
}
