package review

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/conorfennell/spacedeck/internal/domain"
	"github.com/conorfennell/spacedeck/internal/sm2"
)

// memStore is an in-memory Store for engine tests. IDs are zero-padded
// sequence numbers, so ascending ID order is creation order, matching
// the ULID behavior of the SQLite store.
type memStore struct {
	seq  int
	base time.Time
	recs []domain.ReviewRecord

	createErr error
	updateErr error
	listErr   error
	dueErr    error
}

func newMemStore(base time.Time) *memStore {
	return &memStore{base: base}
}

func (m *memStore) Create(_ context.Context, rec domain.ReviewRecord) (domain.ReviewRecord, error) {
	if m.createErr != nil {
		return domain.ReviewRecord{}, m.createErr
	}
	m.seq++
	rec.ID = fmt.Sprintf("rec-%04d", m.seq)
	rec.CreatedAt = m.base.Add(time.Duration(m.seq) * time.Second)
	m.recs = append(m.recs, rec)
	return rec, nil
}

func (m *memStore) UpdateSchedule(_ context.Context, id string, res sm2.Result) (domain.ReviewRecord, error) {
	if m.updateErr != nil {
		return domain.ReviewRecord{}, m.updateErr
	}
	for i := range m.recs {
		if m.recs[i].ID == id {
			m.recs[i].Rating = int(res.Rating)
			m.recs[i].Interval = res.Interval
			m.recs[i].Repetitions = res.Repetitions
			m.recs[i].EaseFactor = res.EaseFactor
			m.recs[i].NextReview = res.NextReview
			return m.recs[i], nil
		}
	}
	return domain.ReviewRecord{}, fmt.Errorf("record %s not found", id)
}

func (m *memStore) ListByCard(_ context.Context, user, cardID string) ([]domain.ReviewRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.ReviewRecord
	for _, rec := range m.recs {
		if rec.User == user && rec.CardID == cardID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) ListDueBefore(_ context.Context, user string, t time.Time) ([]domain.ReviewRecord, error) {
	if m.dueErr != nil {
		return nil, m.dueErr
	}
	var out []domain.ReviewRecord
	for _, rec := range m.recs {
		if rec.User == user && !rec.NextReview.After(t) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].NextReview.Equal(out[j].NextReview) {
			return out[i].NextReview.Before(out[j].NextReview)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// seed inserts a record directly, bypassing error injection.
func (m *memStore) seed(rec domain.ReviewRecord) domain.ReviewRecord {
	m.seq++
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("rec-%04d", m.seq)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = m.base.Add(time.Duration(m.seq) * time.Second)
	}
	m.recs = append(m.recs, rec)
	return rec
}

// byID fetches a record for assertions.
func (m *memStore) byID(id string) (domain.ReviewRecord, bool) {
	for _, rec := range m.recs {
		if rec.ID == id {
			return rec, true
		}
	}
	return domain.ReviewRecord{}, false
}
