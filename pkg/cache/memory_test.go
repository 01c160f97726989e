package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name string `json:"name"`
}

func TestMemoryCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)

	var got []entry
	assert.ErrorIs(t, c.Get(ctx, "perms", &got), ErrMiss)

	require.NoError(t, c.Set(ctx, "perms", []entry{{Name: "rooms.read"}}, time.Minute))
	require.NoError(t, c.Get(ctx, "perms", &got))
	assert.Equal(t, []entry{{Name: "rooms.read"}}, got)

	require.NoError(t, c.Delete(ctx, "perms", "other"))
	assert.ErrorIs(t, c.Get(ctx, "perms", &got), ErrMiss)
}

func TestMemoryCache_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)

	original := []entry{{Name: "a"}}
	require.NoError(t, c.Set(ctx, "k", original, time.Minute))
	original[0].Name = "mutated"

	var got []entry
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, "a", got[0].Name)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)

	require.NoError(t, c.Set(ctx, "short", entry{Name: "x"}, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var got entry
	assert.ErrorIs(t, c.Get(ctx, "short", &got), ErrMiss)
	assert.Equal(t, "memory", c.Name())
	assert.NoError(t, c.Ping(ctx))
}
