package pans

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/ipobot/internal/storage"
)

func TestSubmitStoresParsedRecord(t *testing.T) {
	ctx := context.Background()
	svc := NewService(storage.NewMemoryStore(0))

	rec, err := svc.Submit(ctx, 42, "abcde1234f John Doe")
	require.NoError(t, err)
	assert.Equal(t, "ABCDE1234F", rec.PAN)
	assert.Equal(t, "John Doe", rec.Name)

	recs, err := svc.List(ctx, 42)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, rec.ID, recs[0].ID)
}

func TestSubmitFailureKinds(t *testing.T) {
	ctx := context.Background()
	svc := NewService(storage.NewMemoryStore(0))

	_, err := svc.Submit(ctx, 1, "short")
	assert.ErrorIs(t, err, ErrInvalidSubmission)

	_, err = svc.Submit(ctx, 1, "ABCDE1234F")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, 1, "abcde1234f Someone Else")
	assert.ErrorIs(t, err, storage.ErrDuplicatePan)

	for i := 1; i < storage.MaxPANsPerUser; i++ {
		_, err = svc.Submit(ctx, 1, fmt.Sprintf("TEST%05dX", i))
		require.NoError(t, err)
	}
	_, err = svc.Submit(ctx, 1, "LIMIT1234Z")
	assert.ErrorIs(t, err, storage.ErrPanLimitExceeded)

	n, err := svc.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, storage.MaxPANsPerUser, n)
}

func TestDeleteOwnedReportsRemoval(t *testing.T) {
	ctx := context.Background()
	svc := NewService(storage.NewMemoryStore(0))

	rec, err := svc.Submit(ctx, 9, "ABCDE1234F")
	require.NoError(t, err)

	ok, err := svc.DeleteOwned(ctx, 9, rec.ID, rec.PAN)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.DeleteOwned(ctx, 9, rec.ID, rec.PAN)
	require.NoError(t, err)
	assert.False(t, ok)
}
