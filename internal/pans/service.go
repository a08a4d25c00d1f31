package pans

import (
	"context"
	"errors"
	"fmt"

	"github.com/m3rciful/ipobot/core/logger"
	"github.com/m3rciful/ipobot/internal/storage"
	"log/slog"
)

// Service validates submissions and delegates persistence to the store.
type Service struct {
	store storage.Store
}

// NewService wires the service over any storage.Store implementation.
func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

// Submit parses the free-text entry and stores the resulting record.
// Callers distinguish failure kinds with errors.Is against
// ErrInvalidSubmission, storage.ErrPanLimitExceeded and storage.ErrDuplicatePan.
func (s *Service) Submit(ctx context.Context, userID int64, text string) (storage.PanRecord, error) {
	sub, err := ParseSubmission(text)
	if err != nil {
		logger.SVCPans.Warn("submission rejected",
			slog.String("event", "pan.submit"),
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return storage.PanRecord{}, err
	}

	rec, err := s.store.Add(ctx, userID, sub.Name, sub.PAN)
	if err != nil {
		if !errors.Is(err, storage.ErrPanLimitExceeded) && !errors.Is(err, storage.ErrDuplicatePan) {
			return storage.PanRecord{}, fmt.Errorf("submit pan: %w", err)
		}
		logger.SVCPans.Warn("submission rejected",
			slog.String("event", "pan.submit"),
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return storage.PanRecord{}, err
	}
	return rec, nil
}

// List returns the user's records in insertion order.
func (s *Service) List(ctx context.Context, userID int64) ([]storage.PanRecord, error) {
	return s.store.List(ctx, userID)
}

// Count returns how many records the user holds.
func (s *Service) Count(ctx context.Context, userID int64) (int, error) {
	return s.store.Count(ctx, userID)
}

// Total returns the record count across all users.
func (s *Service) Total(ctx context.Context) (int64, error) {
	return s.store.TotalRecords(ctx)
}

// DeleteOwned removes the record if owner and PAN still match the snapshot
// shown to the user.
func (s *Service) DeleteOwned(ctx context.Context, userID, id int64, pan string) (bool, error) {
	ok, err := s.store.DeleteOwned(ctx, userID, id, pan)
	if err != nil {
		logger.SVCPans.Error("delete failed",
			slog.String("event", "pan.delete"),
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.Int64("pan_id", id),
			slog.String("err", err.Error()),
		)
		return false, err
	}
	logger.SVCPans.Info("pan delete",
		slog.String("event", "pan.delete"),
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.Int64("pan_id", id),
		slog.Bool("removed", ok),
	)
	return ok, nil
}
