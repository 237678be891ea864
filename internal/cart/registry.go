package cart

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultIdleTTL = 2 * time.Hour

// Registry hands out one Store per browser session and forgets idle ones.
type Registry struct {
	mu       sync.Mutex
	products Resolver
	ttl      time.Duration
	now      func() time.Time
	entries  map[string]*registryEntry
}

type registryEntry struct {
	store    *Store
	lastSeen time.Time
}

// RegistryOption customises a Registry.
type RegistryOption func(*Registry)

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRegistry creates an empty registry. A non-positive ttl selects the default.
func NewRegistry(products Resolver, ttl time.Duration, opts ...RegistryOption) *Registry {
	if ttl <= 0 {
		ttl = defaultIdleTTL
	}
	r := &Registry{
		products: products,
		ttl:      ttl,
		now:      time.Now,
		entries:  map[string]*registryEntry{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the session's store, creating an empty one on first use.
func (r *Registry) Get(sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if e, ok := r.entries[sessionID]; ok {
		e.lastSeen = now
		return e.store
	}
	s := NewStore(r.products)
	r.entries[sessionID] = &registryEntry{store: s, lastSeen: now}
	return s
}

// Len reports the number of live stores.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep drops stores idle for longer than the ttl and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-r.ttl)
	removed := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

// Run sweeps on every tick until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				logger.Debug("cart registry swept idle sessions", zap.Int("removed", n), zap.Int("live", r.Len()))
			}
		}
	}
}
