package storage

const schema = `
-- One row per scheduling event for a (user, card) pair. Rows are only
-- ever inserted or updated in place; the engine never deletes history.
CREATE TABLE IF NOT EXISTS reviews (
    id          TEXT PRIMARY KEY,  -- ULID, so ID order is creation order
    user        TEXT NOT NULL,
    topic       TEXT NOT NULL,
    card_id     TEXT NOT NULL,
    question    TEXT NOT NULL,
    answer      TEXT NOT NULL,
    rating      INTEGER NOT NULL,
    interval    INTEGER NOT NULL,
    repetitions INTEGER NOT NULL,
    ease_factor REAL NOT NULL,
    next_review TEXT NOT NULL,     -- RFC 3339, UTC
    created_at  TEXT NOT NULL      -- RFC 3339, UTC
);

CREATE INDEX IF NOT EXISTS idx_reviews_user_card ON reviews(user, card_id);
CREATE INDEX IF NOT EXISTS idx_reviews_user_due ON reviews(user, next_review);
`
