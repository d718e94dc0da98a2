// Package cache memoizes resolved entities by raw URL for the lifetime of
// the process.
package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/wsu2059q/ghpreview/internal/classify"
	"github.com/wsu2059q/ghpreview/internal/github"
)

// Store is a process-lifetime resolution cache. Hits return the stored
// entity without I/O; concurrent misses for one URL share a single
// resolution. Failed resolutions are never stored, so a failing reference
// is retried on its next occurrence. Entries are never evicted.
type Store struct {
	resolver github.Resolver

	mu      sync.RWMutex
	entries map[string]github.Entity
	group   singleflight.Group
}

// New creates an empty store backed by the given resolver.
func New(resolver github.Resolver) *Store {
	return &Store{
		resolver: resolver,
		entries:  make(map[string]github.Entity),
	}
}

// GetOrResolve returns the cached entity for rawURL, resolving and storing
// it on first use.
func (s *Store) GetOrResolve(ctx context.Context, rawURL string, ref classify.Reference) (github.Entity, error) {
	s.mu.RLock()
	entity, ok := s.entries[rawURL]
	s.mu.RUnlock()
	if ok {
		return entity, nil
	}

	result, err, _ := s.group.Do(rawURL, func() (any, error) {
		// Re-check under the flight: a previous flight may have stored the
		// entry between the read above and this call.
		s.mu.RLock()
		entity, ok := s.entries[rawURL]
		s.mu.RUnlock()
		if ok {
			return entity, nil
		}

		resolved, err := s.resolver.Resolve(ctx, ref, rawURL)
		if err != nil {
			return github.Entity{}, err
		}

		s.mu.Lock()
		s.entries[rawURL] = resolved
		s.mu.Unlock()
		return resolved, nil
	})
	if err != nil {
		return github.Entity{}, err
	}
	return result.(github.Entity), nil
}

// Len reports the number of cached entities.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
