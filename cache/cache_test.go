// cache/cache_test.go

package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestGetAddBasics(t *testing.T) {
	c := New(4, time.Minute)
	c.Add("widgets", "k1", "v1")

	got, ok := c.Get("k1")
	if !ok || got != "v1" {
		t.Fatalf("Get(k1) = %v, %v", got, ok)
	}
	if _, ok := c.Get("k2"); ok {
		t.Error("unexpected hit for absent key")
	}
}

func TestLRUEviction(t *testing.T) {
	c := New(2, time.Minute)
	c.Add("t", "a", 1)
	c.Add("t", "b", 2)
	c.Get("a") // a is now MRU
	c.Add("t", "c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("LRU entry survived eviction")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("MRU entry evicted")
	}
	if c.Len() != 2 {
		t.Errorf("len = %d, want 2", c.Len())
	}
}

func TestTTLExpiry(t *testing.T) {
	c := New(4, time.Minute)
	base := time.Now()
	c.now = func() time.Time { return base }
	c.Add("t", "k", "v")

	c.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, ok := c.Get("k"); ok {
		t.Error("expired entry served")
	}
	if c.Len() != 0 {
		t.Errorf("len = %d after expiry eviction", c.Len())
	}
}

func TestInvalidateTable(t *testing.T) {
	c := New(16, time.Minute)
	for i := 0; i < 3; i++ {
		c.Add("widgets", fmt.Sprintf("w%d", i), i)
	}
	c.Add("orders", "o1", "x")

	c.InvalidateTable("widgets")

	for i := 0; i < 3; i++ {
		if _, ok := c.Get(fmt.Sprintf("w%d", i)); ok {
			t.Errorf("widgets key w%d survived invalidation", i)
		}
	}
	if _, ok := c.Get("o1"); !ok {
		t.Error("unrelated table's key was invalidated")
	}
}
