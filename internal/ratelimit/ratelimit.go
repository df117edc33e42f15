package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	defaultLimit  = 5
	defaultWindow = time.Minute
	cleanupEvery  = 5 * time.Minute
)

// Limiter - скользящее окно на пользователя. Защищает /draft от частых вызовов:
// каждый черновик - платный запрос к провайдеру.
type Limiter struct {
	mu     sync.Mutex
	hits   map[int64][]time.Time
	limit  int
	window time.Duration
	now    func() time.Time
}

type Config struct {
	RequestsPerMinute int
	// Window по умолчанию минута; меняется в основном в тестах
	Window time.Duration
}

func New(cfg Config) *Limiter {
	return NewWithContext(context.Background(), cfg)
}

// NewWithContext: фоновая очистка останавливается вместе с ctx.
func NewWithContext(ctx context.Context, cfg Config) *Limiter {
	l := newLimiter(cfg)
	go l.cleanupLoop(ctx)
	return l
}

func newLimiter(cfg Config) *Limiter {
	limit := cfg.RequestsPerMinute
	if limit <= 0 {
		limit = defaultLimit
	}
	window := cfg.Window
	if window <= 0 {
		window = defaultWindow
	}

	return &Limiter{
		hits:   make(map[int64][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (l *Limiter) Allow(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	fresh := l.prune(userID, now)

	if len(fresh) >= l.limit {
		return false
	}

	l.hits[userID] = append(fresh, now)
	return true
}

func (l *Limiter) Remaining(userID int64) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rem := l.limit - len(l.prune(userID, l.now())); rem > 0 {
		return rem
	}
	return 0
}

// RetryAfter - сколько ждать до следующего разрешенного запроса; 0 если можно сейчас.
func (l *Limiter) RetryAfter(userID int64) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	fresh := l.prune(userID, now)
	if len(fresh) < l.limit {
		return 0
	}

	// окно сдвинется, когда истечет самый старый запрос
	return fresh[0].Add(l.window).Sub(now)
}

// prune вызывается под локом; отметки хранятся по возрастанию времени.
func (l *Limiter) prune(userID int64, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	ts := l.hits[userID]

	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	fresh := ts[i:]

	if len(fresh) == 0 {
		delete(l.hits, userID)
		return nil
	}
	l.hits[userID] = fresh
	return fresh
}

func (l *Limiter) cleanupLoop(ctx context.Context) {
	tick := time.NewTicker(cleanupEvery)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			l.cleanup()
		}
	}
}

func (l *Limiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for uid := range l.hits {
		l.prune(uid, now)
	}
}
