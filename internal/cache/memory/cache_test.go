package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kitbuilder587/casedraft/internal/domain"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New()
	defer c.Stop()

	snap := &domain.CaseSnapshot{CaseNumber: "CS-1", Title: "A v. B"}
	c.Set("case:CS-1", snap, 5*time.Second)

	got, ok := c.Get("case:CS-1")
	if !ok {
		t.Fatal("Get() should return ok=true for existing key")
	}
	if got.(*domain.CaseSnapshot).Title != "A v. B" {
		t.Errorf("Get() = %v", got)
	}

	if v, ok := c.Get("case:missing"); ok || v != nil {
		t.Errorf("Get(missing) = %v, %v", v, ok)
	}
}

func TestCache_TTLExpiration(t *testing.T) {
	c := New()
	defer c.Stop()

	c.Set("k", "v", 50*time.Millisecond)
	if _, ok := c.Get("k"); !ok {
		t.Error("key should exist before TTL expiration")
	}

	time.Sleep(100 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("key should be expired after TTL")
	}
}

func TestCache_DeleteAndOverwrite(t *testing.T) {
	c := New()
	defer c.Stop()

	c.Set("k", "v1", time.Hour)
	c.Set("k", "v2", time.Hour)
	if got, _ := c.Get("k"); got != "v2" {
		t.Errorf("Get() = %v, want v2 after overwrite", got)
	}

	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("key should not exist after delete")
	}
}

func TestCache_JanitorRemovesExpired(t *testing.T) {
	c := New(WithCleanupInterval(10 * time.Millisecond))
	defer c.Stop()

	c.Set("short", 1, time.Millisecond)
	c.Set("long", 2, time.Hour)

	deadline := time.Now().Add(time.Second)
	for c.Len() != 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after cleanup", c.Len())
	}
}

func TestCache_StopIdempotent(t *testing.T) {
	c := New()
	c.Stop()
	c.Stop()
}

func TestCache_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := NewWithContext(ctx)

	cancel()
	time.Sleep(10 * time.Millisecond)

	c.Set("k", "v", time.Hour)
	if _, ok := c.Get("k"); !ok {
		t.Error("cache should still serve reads after context cancel")
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := New()
	defer c.Stop()

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			c.Set("k", i, time.Hour)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			c.Get("k")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			c.Delete("k")
		}
	}()

	wg.Wait()
}
