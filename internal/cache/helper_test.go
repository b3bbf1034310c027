package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedProfile struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestJSONRoundTrip(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	key := IdentityKey(42)
	require.NoError(t, SetJSON(ctx, key, cachedProfile{ID: 42, Name: "quinn"}, IdentityTTL))

	var got cachedProfile
	found, err := GetJSON(ctx, key, &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "quinn", got.Name)

	Invalidate(ctx, key)
	found, err = GetJSON(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAside(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedProfile) func() error {
		return func() error {
			fetches++
			*dest = cachedProfile{ID: 7, Name: "sasha"}
			return nil
		}
	}

	var first cachedProfile
	require.NoError(t, Aside(ctx, UserKey(7), &first, UserTTL, fetch(&first)))
	assert.Equal(t, 1, fetches)

	// Second read is served from the cache.
	var second cachedProfile
	require.NoError(t, Aside(ctx, UserKey(7), &second, UserTTL, fetch(&second)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, first, second)

	InvalidateUser(ctx, 7)
	var third cachedProfile
	require.NoError(t, Aside(ctx, UserKey(7), &third, UserTTL, fetch(&third)))
	assert.Equal(t, 2, fetches)
}

func TestHelpersWithoutClient(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	// Without a client every helper degrades to a no-op rather than failing.
	found, err := GetJSON(ctx, UserKey(1), &cachedProfile{})
	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, SetJSON(ctx, UserKey(1), cachedProfile{ID: 1}, UserTTL))

	fetched := false
	var dest cachedProfile
	require.NoError(t, Aside(ctx, UserKey(1), &dest, UserTTL, func() error {
		fetched = true
		dest = cachedProfile{ID: 1, Name: "river"}
		return nil
	}))
	assert.True(t, fetched)
	assert.Equal(t, "river", dest.Name)
}
