package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationOver23Items(t *testing.T) {
	const total, size = 23, 8

	assert.Equal(t, 3, totalPages(total, size))

	sizes := make([]int, 0, 3)
	for page := 0; page < totalPages(total, size); page++ {
		lo, hi := pageBounds(total, size, page)
		sizes = append(sizes, hi-lo)
	}
	assert.Equal(t, []int{8, 8, 7}, sizes)

	// Last page offers Previous only.
	assert.True(t, hasPrev(2))
	assert.False(t, hasNext(total, size, 2))
	// First page offers Next only.
	assert.False(t, hasPrev(0))
	assert.True(t, hasNext(total, size, 0))
}

func TestPageBoundsEdges(t *testing.T) {
	lo, hi := pageBounds(0, 8, 0)
	assert.Zero(t, hi-lo)

	lo, hi = pageBounds(5, 8, 0)
	assert.Equal(t, 0, lo)
	assert.Equal(t, 5, hi)

	lo, hi = pageBounds(5, 8, 3)
	assert.Zero(t, hi-lo)
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 0, clampPage(23, 8, -1))
	assert.Equal(t, 1, clampPage(23, 8, 1))
	assert.Equal(t, 2, clampPage(23, 8, 99))
	assert.Equal(t, 0, clampPage(0, 8, 4))
}
