package ratelimit

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(cfg Config) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)}
	l := newLimiter(cfg)
	l.now = clock.Now
	return l, clock
}

func TestLimiter_Allow(t *testing.T) {
	limiter, _ := newTestLimiter(Config{RequestsPerMinute: 3})
	userID := int64(12345)

	for i := 0; i < 3; i++ {
		if !limiter.Allow(userID) {
			t.Errorf("request %d should be allowed", i+1)
		}
	}

	if limiter.Allow(userID) {
		t.Error("fourth request should be blocked due to rate limit")
	}
}

func TestLimiter_DifferentUsers(t *testing.T) {
	limiter, _ := newTestLimiter(Config{RequestsPerMinute: 1})

	if !limiter.Allow(111) || !limiter.Allow(222) {
		t.Error("first request of each user should be allowed")
	}
	if limiter.Allow(111) || limiter.Allow(222) {
		t.Error("second request of each user should be blocked")
	}
}

func TestLimiter_WindowSlides(t *testing.T) {
	limiter, clock := newTestLimiter(Config{RequestsPerMinute: 2})
	userID := int64(1)

	limiter.Allow(userID)
	clock.Advance(30 * time.Second)
	limiter.Allow(userID)

	if limiter.Allow(userID) {
		t.Fatal("third request inside the window should be blocked")
	}
	if got := limiter.RetryAfter(userID); got != 30*time.Second {
		t.Errorf("RetryAfter() = %v, want 30s", got)
	}

	clock.Advance(30*time.Second + time.Millisecond)

	if got := limiter.Remaining(userID); got != 1 {
		t.Errorf("Remaining() = %d, want 1 after oldest request expired", got)
	}
	if !limiter.Allow(userID) {
		t.Error("request should be allowed after window slid")
	}
}

func TestLimiter_Remaining(t *testing.T) {
	limiter, _ := newTestLimiter(Config{RequestsPerMinute: 5})
	userID := int64(12345)

	if got := limiter.Remaining(userID); got != 5 {
		t.Errorf("Remaining() = %d, want 5", got)
	}

	for i := 0; i < 3; i++ {
		limiter.Allow(userID)
	}
	if got := limiter.Remaining(userID); got != 2 {
		t.Errorf("Remaining() = %d, want 2", got)
	}
	if got := limiter.RetryAfter(userID); got != 0 {
		t.Errorf("RetryAfter() = %v, want 0 while under limit", got)
	}
}

func TestLimiter_DefaultConfig(t *testing.T) {
	limiter, _ := newTestLimiter(Config{})
	userID := int64(12345)

	for i := 0; i < defaultLimit; i++ {
		if !limiter.Allow(userID) {
			t.Errorf("request %d should be allowed with default config", i+1)
		}
	}
	if limiter.Allow(userID) {
		t.Error("request over default limit should be blocked")
	}
}

func TestLimiter_CleanupDropsIdleUsers(t *testing.T) {
	limiter, clock := newTestLimiter(Config{RequestsPerMinute: 2})

	limiter.Allow(1)
	limiter.Allow(2)
	clock.Advance(2 * time.Minute)
	limiter.cleanup()

	limiter.mu.Lock()
	n := len(limiter.hits)
	limiter.mu.Unlock()
	if n != 0 {
		t.Errorf("hits map has %d users after cleanup, want 0", n)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := New(Config{RequestsPerMinute: 100})
	userID := int64(12345)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				limiter.Allow(userID)
			}
		}()
	}
	wg.Wait()

	if remaining := limiter.Remaining(userID); remaining != 0 {
		t.Errorf("Remaining() = %d, want 0 after concurrent access", remaining)
	}
}
