package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/comunifi/droprelay/pkg/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(ttl time.Duration) (*MemoryStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	s := NewMemoryStore(ttl)
	s.now = clock.Now

	return s, clock
}

func TestMemoryStoreCreate(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(0)

	ok, err := s.Create(ctx, "a", []byte("first"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Create(ctx, "a", []byte("second"))
	require.NoError(t, err)
	assert.False(t, ok, "existing keys must not be overwritten")

	v, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "first", string(v))
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s, _ := newTestStore(0)

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, relay.ErrNotFound)
}

func TestMemoryStoreReplace(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(0)

	ok, err := s.Replace(ctx, "a", []byte("value"))
	require.NoError(t, err)
	assert.False(t, ok, "replace must not create keys")

	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, relay.ErrNotFound)

	_, err = s.Create(ctx, "a", []byte("one"))
	require.NoError(t, err)

	ok, err = s.Replace(ctx, "a", []byte("two"))
	require.NoError(t, err)
	assert.True(t, ok)

	v, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "two", string(v))
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(time.Minute)

	_, err := s.Create(ctx, "idle", []byte("x"))
	require.NoError(t, err)
	_, err = s.Create(ctx, "busy", []byte("y"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		clock.Advance(40 * time.Second)

		_, err = s.Get(ctx, "busy")
		require.NoError(t, err, "accessed keys stay alive")
	}

	_, err = s.Get(ctx, "idle")
	assert.ErrorIs(t, err, relay.ErrNotFound)

	ok, err := s.Replace(ctx, "idle", []byte("z"))
	require.NoError(t, err)
	assert.False(t, ok)

	// an expired key can be claimed again
	ok, err = s.Create(ctx, "idle", []byte("new"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(time.Minute)

	for _, k := range []string{"a", "b", "c"} {
		_, err := s.Create(ctx, k, []byte(k))
		require.NoError(t, err)
	}

	clock.Advance(30 * time.Second)
	_, err := s.Get(ctx, "a")
	require.NoError(t, err)

	clock.Advance(45 * time.Second)

	assert.Equal(t, 2, s.Sweep())
	assert.Equal(t, 1, s.Len())

	_, err = s.Get(ctx, "a")
	assert.NoError(t, err)
}

func TestMemoryStoreNoTTL(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(0)

	_, err := s.Create(ctx, "a", []byte("a"))
	require.NoError(t, err)

	clock.Advance(365 * 24 * time.Hour)

	assert.Equal(t, 0, s.Sweep())

	_, err = s.Get(ctx, "a")
	assert.NoError(t, err)
}

func TestMemoryStoreConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	defer s.Close()

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			ok, err := s.Create(ctx, "room", []byte("x"))
			if err != nil || !ok {
				return
			}

			mu.Lock()
			created++
			mu.Unlock()
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, created)
}

func TestMemoryStoreSweeper(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10 * time.Millisecond)
	defer s.Close()

	_, err := s.Create(ctx, "a", []byte("a"))
	require.NoError(t, err)

	s.StartSweeper(5 * time.Millisecond)

	assert.Eventually(t, func() bool {
		return s.Len() == 0
	}, time.Second, 10*time.Millisecond)

	// closing twice is fine
	assert.NoError(t, s.Close())
}
