// Package storage persists review records in SQLite. It is the
// reference implementation of the engine's store contract; the engine
// itself only ever sees the review.Store interface.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite" // registers the sqlite driver

	"github.com/conorfennell/spacedeck/internal/clock"
	"github.com/conorfennell/spacedeck/internal/domain"
	"github.com/conorfennell/spacedeck/internal/review"
	"github.com/conorfennell/spacedeck/internal/sm2"
)

// Timestamps are stored as RFC 3339 UTC text, so lexicographic order in
// SQL matches chronological order.
const timeFormat = time.RFC3339

// DB wraps the SQLite connection and implements review.Store.
type DB struct {
	conn    *sql.DB
	clock   clock.Clock
	entropy *rand.Rand
}

var _ review.Store = (*DB)(nil)

// Open opens (or creates) the database at dsn and applies the schema.
func Open(dsn string, clk clock.Clock) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{
		conn:    conn,
		clock:   clk,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) newID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), db.entropy).String()
}

// Create inserts a new review record, assigning its ID and creation time.
func (db *DB) Create(ctx context.Context, rec domain.ReviewRecord) (domain.ReviewRecord, error) {
	rec.CreatedAt = db.clock.Now().UTC()
	rec.ID = db.newID(rec.CreatedAt)

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO reviews (id, user, topic, card_id, question, answer,
			rating, interval, repetitions, ease_factor, next_review, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.User,
		rec.Topic,
		rec.CardID,
		rec.Question,
		rec.Answer,
		rec.Rating,
		rec.Interval,
		rec.Repetitions,
		rec.EaseFactor,
		rec.NextReview.UTC().Format(timeFormat),
		rec.CreatedAt.Format(timeFormat),
	)
	if err != nil {
		return domain.ReviewRecord{}, fmt.Errorf("failed to insert review for card %s: %w", rec.CardID, err)
	}
	return rec, nil
}

// UpdateSchedule overwrites the scheduling fields of the record with the
// given ID, leaving its identity and display text untouched.
func (db *DB) UpdateSchedule(ctx context.Context, id string, res sm2.Result) (domain.ReviewRecord, error) {
	_, err := db.conn.ExecContext(ctx, `
		UPDATE reviews
		SET rating = ?, interval = ?, repetitions = ?, ease_factor = ?, next_review = ?
		WHERE id = ?
	`,
		int(res.Rating),
		res.Interval,
		res.Repetitions,
		res.EaseFactor,
		res.NextReview.UTC().Format(timeFormat),
		id,
	)
	if err != nil {
		return domain.ReviewRecord{}, fmt.Errorf("failed to update review %s: %w", id, err)
	}
	return db.findByID(ctx, id)
}

func (db *DB) findByID(ctx context.Context, id string) (domain.ReviewRecord, error) {
	row := db.conn.QueryRowContext(ctx, selectColumns+` FROM reviews WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err != nil {
		return domain.ReviewRecord{}, fmt.Errorf("failed to read back review %s: %w", id, err)
	}
	return rec, nil
}

// ListByCard returns the full history for (user, cardID), most recently
// created first.
func (db *DB) ListByCard(ctx context.Context, user, cardID string) ([]domain.ReviewRecord, error) {
	rows, err := db.conn.QueryContext(ctx, selectColumns+`
		FROM reviews
		WHERE user = ? AND card_id = ?
		ORDER BY created_at DESC, id DESC
	`, user, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for card %s: %w", cardID, err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// ListDueBefore returns every record for user due at or before t,
// earliest first. Equal due times fall back to ID order, which is
// creation order because IDs are ULIDs.
func (db *DB) ListDueBefore(ctx context.Context, user string, t time.Time) ([]domain.ReviewRecord, error) {
	rows, err := db.conn.QueryContext(ctx, selectColumns+`
		FROM reviews
		WHERE user = ? AND next_review <= ?
		ORDER BY next_review ASC, id ASC
	`, user, t.UTC().Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to list due reviews: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

const selectColumns = `
	SELECT id, user, topic, card_id, question, answer,
		rating, interval, repetitions, ease_factor, next_review, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (domain.ReviewRecord, error) {
	var rec domain.ReviewRecord
	var nextReview, createdAt string
	err := row.Scan(
		&rec.ID,
		&rec.User,
		&rec.Topic,
		&rec.CardID,
		&rec.Question,
		&rec.Answer,
		&rec.Rating,
		&rec.Interval,
		&rec.Repetitions,
		&rec.EaseFactor,
		&nextReview,
		&createdAt,
	)
	if err != nil {
		return domain.ReviewRecord{}, err
	}
	if rec.NextReview, err = time.Parse(timeFormat, nextReview); err != nil {
		return domain.ReviewRecord{}, fmt.Errorf("bad next_review on %s: %w", rec.ID, err)
	}
	if rec.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return domain.ReviewRecord{}, fmt.Errorf("bad created_at on %s: %w", rec.ID, err)
	}
	return rec, nil
}

func collectRecords(rows *sql.Rows) ([]domain.ReviewRecord, error) {
	var recs []domain.ReviewRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
