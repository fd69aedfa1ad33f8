package localstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySlot(t *testing.T) {
	ctx := context.Background()

	t.Run("get set remove", func(t *testing.T) {
		s := NewMemorySlot()

		_, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, s.Set(ctx, "k", "v"))
		v, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "v", v)

		require.NoError(t, s.Remove(ctx, "k"))
		require.NoError(t, s.Remove(ctx, "k"))
		_, ok, _ = s.Get(ctx, "k")
		assert.False(t, ok)
	})

	t.Run("quota counts every key", func(t *testing.T) {
		s := NewMemorySlot()
		s.Quota = 20 // ten UTF-16 units

		require.NoError(t, s.Set(ctx, "a", "12345"))
		assert.ErrorIs(t, s.Set(ctx, "b", "123456"), ErrQuotaExceeded)
		require.NoError(t, s.Set(ctx, "a", "1234567890"), "overwriting a key frees its old value")
	})
}

func TestFileSlot(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "slots")

	s, err := NewFileSlot(dir)
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, "memory-cards:user/1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "memory-cards:user/1", `[{"id":"a"}]`))
	v, ok, err := s.Get(ctx, "memory-cards:user/1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, v)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")

	require.NoError(t, s.Remove(ctx, "memory-cards:user/1"))
	require.NoError(t, s.Remove(ctx, "memory-cards:user/1"))

	s.Quota = 8
	assert.ErrorIs(t, s.Set(ctx, "k", "too long"), ErrQuotaExceeded)
}

// fakeRedis implements redisKV over a map
type fakeRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
	setErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.values[key] = value.(string)
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisSlot(t *testing.T) {
	ctx := context.Background()

	t.Run("prefixes keys and applies ttl", func(t *testing.T) {
		fake := newFakeRedis()
		s := newRedisSlot(fake, WithKeyPrefix("mc:"), WithTTL(time.Hour))

		require.NoError(t, s.Set(ctx, "memory-cards", "[]"))
		assert.Equal(t, "[]", fake.values["mc:memory-cards"])
		assert.Equal(t, time.Hour, fake.ttls["mc:memory-cards"])

		v, ok, err := s.Get(ctx, "memory-cards")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "[]", v)

		require.NoError(t, s.Remove(ctx, "memory-cards"))
		_, ok, err = s.Get(ctx, "memory-cards")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("maps OOM to quota exceeded", func(t *testing.T) {
		fake := newFakeRedis()
		fake.setErr = errors.New("OOM command not allowed when used memory > 'maxmemory'.")
		s := newRedisSlot(fake)

		assert.ErrorIs(t, s.Set(ctx, "k", "v"), ErrQuotaExceeded)
	})

	t.Run("wraps other errors", func(t *testing.T) {
		fake := newFakeRedis()
		fake.setErr = errors.New("connection refused")
		s := newRedisSlot(fake)

		err := s.Set(ctx, "k", "v")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrQuotaExceeded)
	})

	t.Run("store works over redis", func(t *testing.T) {
		s := newTestStore(t, newRedisSlot(newFakeRedis()))
		require.True(t, s.Save(ctx, sampleCard("a")))
		assert.Len(t, s.GetAll(ctx), 1)
	})
}

func TestEstimateUTF16Bytes(t *testing.T) {
	assert.Equal(t, 0, EstimateUTF16Bytes(""))
	assert.Equal(t, 6, EstimateUTF16Bytes("abc"))
	assert.Equal(t, 2, EstimateUTF16Bytes("ã"))
	assert.Equal(t, 4, EstimateUTF16Bytes("🎂"))
}

func TestEstimateDecodedSize(t *testing.T) {
	assert.Equal(t, 3, EstimateDecodedSize("data:image/png;base64,AAAA"))
	assert.Equal(t, 3, EstimateDecodedSize("AAAA"))
	assert.Equal(t, 4, EstimateDecodedSize("data:,AAAAA"))
}
