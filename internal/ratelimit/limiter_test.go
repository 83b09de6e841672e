// file: internal/ratelimit/limiter_test.go
// version: 1.0.0
// guid: e8d2a5b6-1c7f-4e9a-3b4c-6d7e8f9a0b1c

package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementFreshKey(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	w, err := store.Increment("client-a", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, w.Count)
	assert.WithinDuration(t, time.Now().Add(time.Minute), w.ResetAt, 100*time.Millisecond)
}

func TestIncrementWithinWindow(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	first, err := store.Increment("client-a", time.Minute)
	require.NoError(t, err)

	for i := 2; i <= 5; i++ {
		w, err := store.Increment("client-a", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, w.Count)
		// ResetAt is fixed for the life of the window.
		assert.Equal(t, first.ResetAt, w.ResetAt)
	}
}

func TestWindowResets(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	w, err := store.Increment("client-a", 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, w.Count)

	_, err = store.Increment("client-a", 10*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	w, err = store.Increment("client-a", 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, w.Count, "expired window must be replaced, not incremented")
	assert.WithinDuration(t, time.Now().Add(10*time.Millisecond), w.ResetAt, 50*time.Millisecond)
}

func TestIndependentKeys(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	store.Increment("read:1.2.3.4", time.Minute)
	store.Increment("read:1.2.3.4", time.Minute)
	w, err := store.Increment("write:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, w.Count, "profiles are independent counter namespaces")
}

func TestConcurrentIncrementsNoLostUpdates(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Increment("hot-key", time.Minute)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	w, err := store.Increment("hot-key", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, n+1, w.Count, "every concurrent increment must count exactly once")
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	store.Increment("short", 5*time.Millisecond)
	store.Increment("long", time.Minute)
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 0, store.Sweep(), "second immediate sweep is a no-op")
}

func TestJanitorBoundsMemory(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	stop := store.StartJanitor(5 * time.Millisecond)
	defer stop()

	store.Increment("gone-soon", time.Millisecond)

	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if store.Len() == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("janitor never removed the expired window")
}

func TestDefaultPolicies(t *testing.T) {
	t.Parallel()

	policies := DefaultPolicies()
	assert.Len(t, policies, 5)
	assert.Equal(t, Policy{Window: 15 * time.Minute, Max: 1000}, policies[ProfileRead])
	assert.Equal(t, Policy{Window: 15 * time.Minute, Max: 100}, policies[ProfileWrite])
	assert.Equal(t, Policy{Window: 60 * time.Minute, Max: 10}, policies[ProfileSensitive])
	assert.Equal(t, Policy{Window: 60 * time.Minute, Max: 50}, policies[ProfileUpload])
	assert.Equal(t, Policy{Window: 15 * time.Minute, Max: 200}, policies[ProfileMetadata])
}
