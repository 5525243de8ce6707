// Package cache holds short-lived server state, such as table sessions,
// in size-bounded expiring maps.
package cache

import (
	"context"
	"time"

	"finorbit/internal/log"
)

// Cache is the subset of LRU used by request handlers.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	GetOrCreate(key string, create func() (T, error)) (T, bool, error)
	Delete(key string)
	Size() int
}

// Cleaner is a cache that can drop its expired entries.
type Cleaner interface {
	CleanExpired() int
}

// Manager periodically sweeps registered caches.
type Manager struct {
	caches map[string]Cleaner
	logger *log.Logger
}

func NewManager(logger *log.Logger) *Manager {
	return &Manager{
		caches: make(map[string]Cleaner),
		logger: logger.WithComponent(log.ComponentCache),
	}
}

// Register adds a cache under a name used in logs.
func (m *Manager) Register(name string, c Cleaner) {
	m.caches[name] = c
}

// Sweep cleans every registered cache once.
func (m *Manager) Sweep() int {
	total := 0
	for name, c := range m.caches {
		n := c.CleanExpired()
		if n > 0 {
			m.logger.Debug("expired entries removed", "cache", name, "removed", n)
		}
		total += n
	}
	return total
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-ctx.Done():
			return nil
		}
	}
}
