package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/m3rciful/ipobot/core/logger"
	"log/slog"
)

const pqUniqueViolation = "23505"

// PostgresStore persists PAN records in the pan_records table.
type PostgresStore struct {
	db    *sqlx.DB
	limit int
}

// NewPostgresStore wraps an open sqlx handle. A non-positive limit falls
// back to MaxPANsPerUser.
func NewPostgresStore(db *sqlx.DB, limit int) *PostgresStore {
	if limit <= 0 {
		limit = MaxPANsPerUser
	}
	return &PostgresStore{db: db, limit: limit}
}

// Add inserts a new PAN record after checking the per-user limit.
// The unique index on (user_id, pan) backs the duplicate check, so a
// concurrent insert still fails cleanly with ErrDuplicatePan.
func (s *PostgresStore) Add(ctx context.Context, userID int64, name, pan string) (PanRecord, error) {
	start := time.Now()

	count, err := s.Count(ctx, userID)
	if err != nil {
		return PanRecord{}, err
	}
	if count >= s.limit {
		logger.SVCPans.Warn("add rejected",
			slog.String("event", "pan.add"),
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.Int("count", count),
			slog.String("err_code", "PAN_LIMIT"),
		)
		return PanRecord{}, ErrPanLimitExceeded
	}

	var rec PanRecord
	err = s.db.QueryRowxContext(ctx,
		`INSERT INTO pan_records (user_id, name, pan)
		 VALUES ($1, $2, $3)
		 RETURNING id, user_id, name, pan, created_at`,
		userID, name, pan,
	).StructScan(&rec)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return PanRecord{}, ErrDuplicatePan
		}
		logger.SVCPans.Error("add failed",
			slog.String("event", "pan.add"),
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return PanRecord{}, fmt.Errorf("insert pan: %w", err)
	}

	logger.SVCPans.Info("pan added",
		slog.String("event", "pan.add"),
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.Int64("pan_id", rec.ID),
		slog.Duration("duration", logger.Took(start)),
	)
	return rec, nil
}

// List returns the user's records oldest first.
func (s *PostgresStore) List(ctx context.Context, userID int64) ([]PanRecord, error) {
	var recs []PanRecord
	err := s.db.SelectContext(ctx, &recs,
		`SELECT id, user_id, name, pan, created_at
		 FROM pan_records
		 WHERE user_id = $1
		 ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list pans: %w", err)
	}
	return recs, nil
}

// Count returns the number of records for the user.
func (s *PostgresStore) Count(ctx context.Context, userID int64) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM pan_records WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("count pans: %w", err)
	}
	return n, nil
}

// Delete removes the record with the given id. Deleting an absent id is a
// no-op so the operation is safe to retry.
func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM pan_records WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete pan: %w", err)
	}
	return nil
}

// DeleteOwned removes the record only when owner and PAN still match what
// the user was shown, guarding against stale deletion snapshots.
func (s *PostgresStore) DeleteOwned(ctx context.Context, userID, id int64, pan string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM pan_records WHERE id = $1 AND user_id = $2 AND pan = $3`,
		id, userID, pan)
	if err != nil {
		return false, fmt.Errorf("delete owned pan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete owned pan: rows affected: %w", err)
	}
	return n > 0, nil
}

// DeleteAllForUser removes every record of the user and reports how many
// rows were dropped.
func (s *PostgresStore) DeleteAllForUser(ctx context.Context, userID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM pan_records WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete all pans: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete all pans: rows affected: %w", err)
	}
	logger.SVCPans.Info("pans purged",
		slog.String("event", "pan.delete_all"),
		slog.Int64("user_id", userID),
		slog.Int64("count", n),
	)
	return n, nil
}

// TotalRecords returns the table-wide row count for admin diagnostics.
func (s *PostgresStore) TotalRecords(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM pan_records`); err != nil {
		return 0, fmt.Errorf("total pans: %w", err)
	}
	return n, nil
}

var _ Store = (*PostgresStore)(nil)
