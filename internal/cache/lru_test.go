package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finorbit/internal/log"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestLRU_GetSet(t *testing.T) {
	c := NewLRU[int](2, time.Minute)
	c.Set("a", 1)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, uint64(1), c.Stats().Evictions)
}

func TestLRU_SlidingExpiry(t *testing.T) {
	clock := newClock()
	c := NewLRU[string](10, time.Minute, WithClock(clock.now))
	c.Set("s", "session")

	clock.advance(50 * time.Second)
	_, ok := c.Get("s")
	require.True(t, ok)

	clock.advance(50 * time.Second)
	_, ok = c.Get("s")
	require.True(t, ok, "a hit extends the deadline")

	clock.advance(61 * time.Second)
	_, ok = c.Get("s")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestLRU_GetOrCreate(t *testing.T) {
	c := NewLRU[int](4, time.Minute)
	calls := 0
	create := func() (int, error) {
		calls++
		return 42, nil
	}

	v, created, err := c.GetOrCreate("k", create)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 42, v)

	v, created, err = c.GetOrCreate("k", create)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)

	boom := errors.New("boom")
	_, _, err = c.GetOrCreate("other", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, c.Size())
}

func TestLRU_GetOrCreateDoesNotBlockOtherKeys(t *testing.T) {
	c := NewLRU[int](4, time.Minute)
	c.Set("other", 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		v, created, err := c.GetOrCreate("slow", func() (int, error) {
			// Another key stays reachable while this one is being built.
			other, ok := c.Get("other")
			if !ok {
				return 0, errors.New("other key unreachable")
			}
			return other + 1, nil
		})
		assert.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, 2, v)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("create ran under the cache lock")
	}
}

func TestLRU_GetOrCreateRunsCreateOncePerKey(t *testing.T) {
	c := NewLRU[int](4, time.Minute)
	var calls, createdCount atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, created, err := c.GetOrCreate("k", func() (int, error) {
				calls.Add(1)
				<-release
				return 7, nil
			})
			assert.NoError(t, err)
			assert.Equal(t, 7, v)
			if created {
				createdCount.Add(1)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(1), createdCount.Load())
	assert.Equal(t, 1, c.Size())
}

func TestLRU_CleanExpired(t *testing.T) {
	clock := newClock()
	c := NewLRU[int](10, time.Minute, WithClock(clock.now))
	c.Set("old", 1)
	clock.advance(2 * time.Minute)
	c.Set("new", 2)

	assert.Equal(t, 1, c.CleanExpired())
	assert.Equal(t, 1, c.Size())
}

func TestManager_Sweep(t *testing.T) {
	clock := newClock()
	c := NewLRU[int](10, time.Second, WithClock(clock.now))
	c.Set("a", 1)
	c.Set("b", 2)
	clock.advance(time.Minute)

	m := NewManager(log.Discard())
	m.Register("test", c)
	assert.Equal(t, 2, m.Sweep())
}

func TestManager_RunStopsOnCancel(t *testing.T) {
	m := NewManager(log.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, time.Millisecond) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
