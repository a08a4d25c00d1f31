// Package storage owns the pan_records relation: insert, list, count and
// delete of PAN records scoped to a Telegram user.
package storage

import (
	"context"
	"errors"
	"time"
)

// MaxPANsPerUser bounds how many records a single user may hold.
const MaxPANsPerUser = 20

var (
	// ErrPanLimitExceeded is returned when a user already holds MaxPANsPerUser records.
	ErrPanLimitExceeded = errors.New("storage: pan limit exceeded")
	// ErrDuplicatePan is returned when the same PAN already exists for the user.
	ErrDuplicatePan = errors.New("storage: pan already added")
)

// PanRecord is a stored (user, name, PAN) tuple. The PAN is persisted
// upper-cased; ID is assigned on insert and is the sole delete key.
type PanRecord struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Name      string    `db:"name"`
	PAN       string    `db:"pan"`
	CreatedAt time.Time `db:"created_at"`
}

// Store is the persistence contract for PAN records.
type Store interface {
	// Add inserts a record and returns it with the assigned id.
	// Fails with ErrPanLimitExceeded or ErrDuplicatePan.
	Add(ctx context.Context, userID int64, name, pan string) (PanRecord, error)
	// List returns the user's records in insertion order.
	List(ctx context.Context, userID int64) ([]PanRecord, error)
	// Count returns the number of records the user holds.
	Count(ctx context.Context, userID int64) (int, error)
	// Delete removes a record by id. Absent ids are a no-op.
	Delete(ctx context.Context, id int64) error
	// DeleteOwned removes the record only if it still belongs to the user
	// and carries the given PAN. Reports whether a row was removed.
	DeleteOwned(ctx context.Context, userID, id int64, pan string) (bool, error)
	// DeleteAllForUser removes every record of the user.
	// Legacy bulk path; not reachable from the current menus.
	DeleteAllForUser(ctx context.Context, userID int64) (int64, error)
	// TotalRecords returns the number of records across all users.
	TotalRecords(ctx context.Context) (int64, error)
}
