package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/casedraft/internal/cache"
)

const defaultCleanupInterval = 5 * time.Minute

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache - in-memory кеш с TTL. Держит карточки дел, черновики сюда не попадают.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	stop    chan struct{}
	once    sync.Once
}

type Option func(*options)

type options struct {
	cleanupInterval time.Duration
}

func WithCleanupInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.cleanupInterval = d
		}
	}
}

func New(opts ...Option) *Cache {
	return NewWithContext(context.Background(), opts...)
}

// NewWithContext: фоновая очистка живет, пока не отменен ctx или не вызван Stop.
func NewWithContext(ctx context.Context, opts ...Option) *Cache {
	o := options{cleanupInterval: defaultCleanupInterval}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Cache{
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
	}
	go c.janitor(ctx, o.cleanupInterval)
	return c
}

func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len считает и просроченные, но еще не вычищенные записи.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) Stop() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache) janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		case <-ticker.C:
			c.removeExpired(time.Now())
		}
	}
}

func (c *Cache) removeExpired(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

var _ cache.Cache = (*Cache)(nil)
