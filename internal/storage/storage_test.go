package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis instance and a client pointed at it
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestBackends(t *testing.T) {
	t.Parallel()

	backends := map[string]func(t *testing.T) Backend{
		"memory": func(t *testing.T) Backend { return NewMemoryBackend() },
		"file": func(t *testing.T) Backend {
			b, err := NewFileBackend(filepath.Join(t.TempDir(), "data"))
			require.NoError(t, err)
			return b
		},
		"redis": func(t *testing.T) Backend {
			_, client := setupTestRedis(t)
			return NewRedisBackend(client, "test:")
		},
	}

	for name, newBackend := range backends {
		newBackend := newBackend
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			b := newBackend(t)

			_, err := b.Load(ctx, KeyProducts)
			require.ErrorIs(t, err, ErrKeyNotFound)

			require.NoError(t, b.Save(ctx, KeyProducts, []byte(`[1]`)))
			require.NoError(t, b.Save(ctx, KeyProducts, []byte(`[1,2]`)))
			data, err := b.Load(ctx, KeyProducts)
			require.NoError(t, err)
			require.JSONEq(t, `[1,2]`, string(data))

			require.NoError(t, b.Remove(ctx, KeyProducts))
			require.NoError(t, b.Remove(ctx, KeyProducts), "removing an absent key is fine")
			_, err = b.Load(ctx, KeyProducts)
			require.ErrorIs(t, err, ErrKeyNotFound)
		})
	}
}

func TestJSONHelpers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := NewMemoryBackend()

	var out []string
	found, err := LoadJSON(ctx, b, KeyBids, &out)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, SaveJSON(ctx, b, KeyBids, []string{"a", "b"}))
	found, err = LoadJSON(ctx, b, KeyBids, &out)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []string{"a", "b"}, out)

	require.NoError(t, b.Save(ctx, KeyOrders, []byte(`{not json`)))
	_, err = LoadJSON(ctx, b, KeyOrders, &out)
	require.Error(t, err)
}

func TestFileBackend_WritesNamedDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	require.NoError(t, err)

	require.NoError(t, b.Save(context.Background(), KeySession, []byte(`{"a":1}`)))

	content, err := os.ReadFile(filepath.Join(dir, "auction_user.json"))
	require.NoError(t, err)
	require.JSONEq(t, `{"a":1}`, string(content))

	_, err = os.Stat(filepath.Join(dir, "auction_user.json.tmp"))
	require.True(t, os.IsNotExist(err), "temp file is renamed away")
}

func TestRedisBackend_UsesPrefix(t *testing.T) {
	t.Parallel()

	mr, client := setupTestRedis(t)
	b := NewRedisBackend(client, "")

	require.NoError(t, b.Save(context.Background(), KeyAccounts, []byte(`[]`)))

	got, err := mr.Get(DefaultRedisPrefix + KeyAccounts)
	require.NoError(t, err)
	require.Equal(t, `[]`, got)
}

func TestDialRedis(t *testing.T) {
	t.Parallel()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	b, err := DialRedis(context.Background(), "redis://"+mr.Addr(), "x:")
	require.NoError(t, err)
	defer b.Close()
	require.NoError(t, b.Save(context.Background(), "k", []byte("v")))
	require.True(t, mr.Exists("x:k"))

	_, err = DialRedis(context.Background(), "not a url", "")
	require.Error(t, err)
}
