package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/livetemplate/htmlelements"
)

func TestStateCachePutTake(t *testing.T) {
	c := NewStateCache(0)
	defer c.Stop()

	if _, found := c.Take("missing"); found {
		t.Error("expected cache miss for non-existent key")
	}

	state := htmlelements.DefaultState().WithText("parked")
	c.Put("s1", state, time.Minute)

	got, found := c.Take("s1")
	if !found {
		t.Fatal("expected cache hit")
	}
	if got != state {
		t.Errorf("Take returned %+v, want %+v", got, state)
	}

	if _, found := c.Take("s1"); found {
		t.Error("a parked state should only be resumable once")
	}
}

func TestStateCacheTTL(t *testing.T) {
	c := NewStateCache(0)
	defer c.Stop()

	c.Put("short", htmlelements.DefaultState(), 50*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	if _, found := c.Take("short"); found {
		t.Error("expected cache miss after TTL expired")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be removed on access, got %d entries", c.Len())
	}
}

func TestStateCacheNonPositiveTTLIsIgnored(t *testing.T) {
	c := NewStateCache(0)
	defer c.Stop()

	c.Put("zero", htmlelements.DefaultState(), 0)
	c.Put("negative", htmlelements.DefaultState(), -time.Second)
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
}

func TestStateCacheEvictsClosestToExpiry(t *testing.T) {
	c := NewStateCache(2)
	defer c.Stop()

	c.Put("soon", htmlelements.DefaultState(), time.Second)
	c.Put("later", htmlelements.DefaultState(), time.Hour)
	c.Put("new", htmlelements.DefaultState(), time.Hour)

	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	if _, found := c.Take("soon"); found {
		t.Error("entry closest to expiry should have been evicted")
	}
	if _, found := c.Take("later"); !found {
		t.Error("expected 'later' to survive eviction")
	}
}

func TestStateCacheCleanup(t *testing.T) {
	c := NewStateCache(0)
	defer c.Stop()

	c.Put("expired", htmlelements.DefaultState(), 10*time.Millisecond)
	c.Put("valid", htmlelements.DefaultState(), time.Hour)
	time.Sleep(20 * time.Millisecond)

	c.cleanup()

	if c.Len() != 1 {
		t.Errorf("expected 1 entry after cleanup, got %d", c.Len())
	}
}

func TestStateCacheInvalidateAll(t *testing.T) {
	c := NewStateCache(0)
	defer c.Stop()

	c.Put("a", htmlelements.DefaultState(), time.Minute)
	c.Put("b", htmlelements.DefaultState(), time.Minute)
	c.InvalidateAll()

	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
}

func TestStateCacheStopIdempotent(t *testing.T) {
	c := NewStateCache(0)
	c.Stop()
	c.Stop()
}

func TestStateCacheConcurrentAccess(t *testing.T) {
	c := NewStateCache(50)
	defer c.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				id := fmt.Sprintf("s%d-%d", n, j)
				c.Put(id, htmlelements.DefaultState().WithRange(j), time.Minute)
				c.Take(id)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 50 {
		t.Errorf("cache grew past its bound: %d entries", c.Len())
	}
}
