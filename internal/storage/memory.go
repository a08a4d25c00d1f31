package storage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store implementation for tests and for
// running the bot without a database. Semantics match PostgresStore.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	limit  int
	rows   map[int64]PanRecord
}

// NewMemoryStore constructs an empty MemoryStore. A non-positive limit
// falls back to MaxPANsPerUser.
func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = MaxPANsPerUser
	}
	return &MemoryStore{
		nextID: 1,
		limit:  limit,
		rows:   make(map[int64]PanRecord),
	}
}

// Add inserts a record, enforcing the per-user limit and uniqueness of
// (user, PAN).
func (s *MemoryStore) Add(_ context.Context, userID int64, name, pan string) (PanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	dup := false
	for _, r := range s.rows {
		if r.UserID != userID {
			continue
		}
		if r.PAN == pan {
			dup = true
		}
		count++
	}
	// The limit check runs before the duplicate check, as in PostgresStore.Add.
	if count >= s.limit {
		return PanRecord{}, ErrPanLimitExceeded
	}
	if dup {
		return PanRecord{}, ErrDuplicatePan
	}

	rec := PanRecord{
		ID:        s.nextID,
		UserID:    userID,
		Name:      name,
		PAN:       pan,
		CreatedAt: time.Now(),
	}
	s.nextID++
	s.rows[rec.ID] = rec
	return rec, nil
}

// List returns the user's records in insertion order.
func (s *MemoryStore) List(_ context.Context, userID int64) ([]PanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var recs []PanRecord
	for _, r := range s.rows {
		if r.UserID == userID {
			recs = append(recs, r)
		}
	}
	// Ids are monotonic, so id order equals insertion order.
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
	return recs, nil
}

// Count returns the number of records for the user.
func (s *MemoryStore) Count(_ context.Context, userID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, r := range s.rows {
		if r.UserID == userID {
			n++
		}
	}
	return n, nil
}

// Delete removes the record by id; absent ids are a no-op.
func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	return nil
}

// DeleteOwned removes the record only when owner and PAN still match.
func (s *MemoryStore) DeleteOwned(_ context.Context, userID, id int64, pan string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rows[id]
	if !ok || r.UserID != userID || r.PAN != pan {
		return false, nil
	}
	delete(s.rows, id)
	return true, nil
}

// DeleteAllForUser removes every record of the user.
func (s *MemoryStore) DeleteAllForUser(_ context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, r := range s.rows {
		if r.UserID == userID {
			delete(s.rows, id)
			n++
		}
	}
	return n, nil
}

// TotalRecords returns the row count across all users.
func (s *MemoryStore) TotalRecords(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.rows)), nil
}

var _ Store = (*MemoryStore)(nil)
