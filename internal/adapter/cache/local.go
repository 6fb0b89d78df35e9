package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/ports"
)

// ErrMiss is returned by LocalCache.Get for absent or expired keys.
var ErrMiss = errors.New("cache miss")

type entry struct {
	value     string
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !e.expiresAt.After(now)
}

// LocalCache keeps revoked-token markers in memory when Redis is disabled
// or unreachable. Entries are only visible to this process.
type LocalCache struct {
	mu        sync.RWMutex
	data      map[string]entry
	log       *zap.Logger
	stopCh    chan struct{}
	closeOnce sync.Once
}

func NewLocalCache(cleanupInterval time.Duration, log *zap.Logger) ports.Cache {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}

	c := &LocalCache{
		data:   make(map[string]entry),
		log:    log,
		stopCh: make(chan struct{}),
	}
	go c.sweep(cleanupInterval)

	log.Info("Local in-memory cache initialized", zap.Duration("cleanup_interval", cleanupInterval))
	return c
}

func (c *LocalCache) Get(_ context.Context, key string) (string, error) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()

	if !ok || e.expired(time.Now()) {
		return "", fmt.Errorf("%w: %s", ErrMiss, key)
	}
	return e.value, nil
}

func (c *LocalCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal value: %w", err)
		}
		s = string(raw)
	}

	e := entry{value: s}
	if expiration > 0 {
		e.expiresAt = time.Now().Add(expiration)
	}

	c.mu.Lock()
	c.data[key] = e
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Ping() error {
	return nil
}

func (c *LocalCache) Close() error {
	c.closeOnce.Do(func() { close(c.stopCh) })
	return nil
}

func (c *LocalCache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			c.evict(now)
		case <-c.stopCh:
			return
		}
	}
}

func (c *LocalCache) evict(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, e := range c.data {
		if e.expired(now) {
			delete(c.data, k)
			n++
		}
	}
	if n > 0 {
		c.log.Debug("Cache cleanup completed", zap.Int("expired_entries", n))
	}
}
