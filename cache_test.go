package sitethumbs

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingCache(t *testing.T) {
	calls := 0
	c := NewListingCache(time.Hour, func() ([]Thumbnail, error) {
		calls++
		return []Thumbnail{{DeployPath: "thumb_a.jpg"}}, nil
	})

	for i := 0; i < 3; i++ {
		thumbs, err := c.Thumbnails()
		require.NoError(t, err)
		assert.Len(t, thumbs, 1)
	}
	assert.Equal(t, 1, calls)

	c.Invalidate()
	_, err := c.Thumbnails()
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestListingCacheEmptyListIsCached(t *testing.T) {
	calls := 0
	c := NewListingCache(time.Hour, func() ([]Thumbnail, error) {
		calls++
		return nil, nil
	})
	_, _ = c.Thumbnails()
	_, _ = c.Thumbnails()
	assert.Equal(t, 1, calls)
}

func TestListingCacheExpiry(t *testing.T) {
	calls := 0
	c := NewListingCache(0, func() ([]Thumbnail, error) {
		calls++
		return nil, nil
	})
	_, _ = c.Thumbnails()
	_, _ = c.Thumbnails()
	assert.Equal(t, 2, calls)
}

func TestListingCacheError(t *testing.T) {
	boom := errors.New("boom")
	c := NewListingCache(time.Hour, func() ([]Thumbnail, error) { return nil, boom })
	_, err := c.Thumbnails()
	assert.ErrorIs(t, err, boom)
}
