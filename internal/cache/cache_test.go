// file: internal/cache/cache_test.go
// version: 1.1.0
// guid: b5a9d2e3-8f4c-4b6d-0e1f-3a4b5c6d7e8f

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := New[string](time.Minute)
	c.Set("k", "v")
	v, ok := c.Get("k")
	if !ok || v != "v" {
		t.Fatalf("expected v, got %q ok=%v", v, ok)
	}
}

func TestExpiry(t *testing.T) {
	c := New[int](time.Millisecond)
	c.Set("k", 42)
	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get("k")
	if ok {
		t.Fatal("expected expired entry")
	}
}

func TestExpiredGetEvicts(t *testing.T) {
	c := New[int](time.Millisecond)
	c.Set("k", 1)
	time.Sleep(5 * time.Millisecond)
	c.Get("k")
	if c.Len() != 0 {
		t.Fatalf("expected lazy eviction, %d entries remain", c.Len())
	}
}

func TestSetWithTTLOverridesDefault(t *testing.T) {
	c := New[string](time.Millisecond)
	c.SetWithTTL("k", "v", time.Minute)
	time.Sleep(5 * time.Millisecond)
	v, ok := c.Get("k")
	if !ok || v != "v" {
		t.Fatal("expected entry to survive past default TTL")
	}
}

func TestInvalidate(t *testing.T) {
	c := New[string](time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Invalidate("a")
	_, ok := c.Get("a")
	if ok {
		t.Fatal("expected a to be invalidated")
	}
	v, ok := c.Get("b")
	if !ok || v != "2" {
		t.Fatal("expected b to remain")
	}
}

func TestInvalidateAll(t *testing.T) {
	c := New[int](time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.InvalidateAll()
	_, ok := c.Get("a")
	if ok {
		t.Fatal("expected all invalidated")
	}
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	c := New[int](time.Minute)
	c.SetWithTTL("old", 1, time.Millisecond)
	c.SetWithTTL("older", 2, time.Millisecond)
	c.Set("live", 3)
	time.Sleep(5 * time.Millisecond)

	if removed := c.Sweep(); removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 live entry, got %d", c.Len())
	}
	// Idempotent: a second immediate sweep removes nothing.
	if removed := c.Sweep(); removed != 0 {
		t.Fatalf("expected idempotent sweep, removed %d", removed)
	}
	if v, ok := c.Get("live"); !ok || v != 3 {
		t.Fatal("expected live entry untouched")
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New[int](time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", n%10)
			c.Set(key, n)
			c.Get(key)
			c.Sweep()
		}(i)
	}
	wg.Wait()
}

func TestJanitorSweeps(t *testing.T) {
	c := New[int](time.Millisecond)
	c.Set("k", 1)
	stop := c.StartJanitor(5 * time.Millisecond)
	defer stop()

	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if c.Len() == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("janitor never swept the expired entry")
}

func TestJanitorStopIsIdempotent(t *testing.T) {
	c := New[int](time.Minute)
	stop := c.StartJanitor(time.Hour)
	stop()
	stop()
}
