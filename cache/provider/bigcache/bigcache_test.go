package bigcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewRequiresLifeWindow(t *testing.T) {
	_, err := New(context.Background(), Config{})
	require.Error(t, err)
}

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	p, err := New(ctx, Config{LifeWindow: time.Minute})
	require.NoError(t, err)
	defer p.Close(ctx)

	const key = "item:sku-1042:v0"

	_, ok, err := p.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = p.Set(ctx, key, []byte("payload"), 1, time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, p.Len())

	b, ok, err := p.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("payload"), b)

	require.NoError(t, p.Del(ctx, key))
	_, ok, err = p.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	// Deleting an absent key is a no-op, like the other providers.
	require.NoError(t, p.Del(ctx, key))
}
