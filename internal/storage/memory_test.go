package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddListCountRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	rec, err := s.Add(ctx, 12345, "John Doe", "ABCDE1234F")
	require.NoError(t, err)
	assert.NotZero(t, rec.ID)
	assert.Equal(t, "ABCDE1234F", rec.PAN)

	_, err = s.Add(ctx, 12345, "Jane Smith", "BVJPC7028R")
	require.NoError(t, err)

	recs, err := s.List(ctx, 12345)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "ABCDE1234F", recs[0].PAN)
	assert.Equal(t, "BVJPC7028R", recs[1].PAN)

	n, err := s.Count(ctx, 12345)
	require.NoError(t, err)
	assert.Equal(t, len(recs), n)
}

func TestCountMatchesListAfterChurn(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	var ids []int64
	for i := 0; i < 10; i++ {
		rec, err := s.Add(ctx, 7, "No Name", fmt.Sprintf("TEST%05dX", i))
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}
	require.NoError(t, s.Delete(ctx, ids[0]))
	require.NoError(t, s.Delete(ctx, ids[5]))
	_, err := s.Add(ctx, 7, "No Name", "ZZZZZ9999Z")
	require.NoError(t, err)

	recs, err := s.List(ctx, 7)
	require.NoError(t, err)
	n, err := s.Count(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, len(recs), n)
	assert.Equal(t, 9, n)
}

func TestLimitEnforcedBeforeInsert(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	for i := 0; i < MaxPANsPerUser; i++ {
		_, err := s.Add(ctx, 1, "No Name", fmt.Sprintf("TEST%05dX", i))
		require.NoError(t, err)
	}

	_, err := s.Add(ctx, 1, "21st User", "LIMIT1234Z")
	assert.ErrorIs(t, err, ErrPanLimitExceeded)

	n, err := s.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, MaxPANsPerUser, n)

	// A different user is unaffected by the first user's limit.
	_, err = s.Add(ctx, 2, "No Name", "OTHER1234X")
	assert.NoError(t, err)
}

func TestDuplicateAtLimitReportsLimit(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	for i := 0; i < MaxPANsPerUser; i++ {
		_, err := s.Add(ctx, 1, "No Name", fmt.Sprintf("TEST%05dX", i))
		require.NoError(t, err)
	}

	// Resubmitting a held PAN at the cap reports the limit, not the duplicate.
	_, err := s.Add(ctx, 1, "No Name", "TEST00000X")
	assert.ErrorIs(t, err, ErrPanLimitExceeded)

	n, err := s.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, MaxPANsPerUser, n)
}

func TestDuplicatePanRejected(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	first, err := s.Add(ctx, 1, "John Doe", "ABCDE1234F")
	require.NoError(t, err)

	_, err = s.Add(ctx, 1, "Duplicate", "ABCDE1234F")
	assert.ErrorIs(t, err, ErrDuplicatePan)

	recs, err := s.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, first.ID, recs[0].ID)
	assert.Equal(t, "John Doe", recs[0].Name)

	// Same PAN under another user is fine.
	_, err = s.Add(ctx, 2, "No Name", "ABCDE1234F")
	assert.NoError(t, err)
}

func TestDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	rec, err := s.Add(ctx, 1, "No Name", "ABCDE1234F")
	require.NoError(t, err)
	keep, err := s.Add(ctx, 1, "No Name", "BVJPC7028R")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, rec.ID))
	require.NoError(t, s.Delete(ctx, rec.ID))
	require.NoError(t, s.Delete(ctx, 999999))

	recs, err := s.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, keep.ID, recs[0].ID)
}

func TestDeleteOwnedRevalidates(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	rec, err := s.Add(ctx, 1, "No Name", "ABCDE1234F")
	require.NoError(t, err)

	// Wrong owner, wrong PAN, absent id: nothing removed.
	ok, err := s.DeleteOwned(ctx, 2, rec.ID, rec.PAN)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = s.DeleteOwned(ctx, 1, rec.ID, "XXXXX0000X")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = s.DeleteOwned(ctx, 1, 424242, rec.PAN)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DeleteOwned(ctx, 1, rec.ID, rec.PAN)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := s.Count(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteAllForUser(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	for i := 0; i < 3; i++ {
		_, err := s.Add(ctx, 1, "No Name", fmt.Sprintf("TEST%05dX", i))
		require.NoError(t, err)
	}
	_, err := s.Add(ctx, 2, "No Name", "OTHER1234X")
	require.NoError(t, err)

	n, err := s.DeleteAllForUser(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	left, err := s.Count(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, left)
}
