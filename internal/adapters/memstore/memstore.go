package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/africarailways/ussd-gateway/internal/domain"
)

const (
	// Opportunistic pruning runs at most once per interval and removes
	// entries not touched within maxAge, whatever their TTL said.
	defaultPruneEvery = 10 * time.Minute
	defaultMaxAge     = time.Hour
)

type entry struct {
	fields      domain.Fields
	lastUpdated time.Time
	expiresAt   time.Time // zero means no TTL
}

// Store is an in-process session store. It backs the gateway directly when
// no durable store is configured and serves as the fallback behind the
// Redis adapter.
type Store struct {
	mu         sync.Mutex
	items      map[string]entry
	now        func() time.Time
	pruneEvery time.Duration
	maxAge     time.Duration
	lastPrune  time.Time
}

func New() *Store {
	return &Store{
		items:      make(map[string]entry),
		now:        time.Now,
		pruneEvery: defaultPruneEvery,
		maxAge:     defaultMaxAge,
	}
}

func (s *Store) Get(ctx context.Context, sessionID string) (domain.Fields, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()

	e, ok := s.items[sessionID]
	if !ok {
		return domain.Fields{}, nil
	}
	if !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		delete(s.items, sessionID)
		return domain.Fields{}, nil
	}

	out := make(domain.Fields, len(e.fields))
	for k, v := range e.fields {
		out[k] = v
	}
	return out, nil
}

func (s *Store) Set(ctx context.Context, sessionID string, fields domain.Fields, ttl time.Duration) error {
	cp := make(domain.Fields, len(fields))
	for k, v := range fields {
		cp[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()

	now := s.now()
	e := entry{fields: cp, lastUpdated: now}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	s.items[sessionID] = e
	return nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, sessionID)
	return nil
}

// Connected is always false: there is no durable backing here.
func (s *Store) Connected(ctx context.Context) bool {
	return false
}

// Len reports the number of live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) pruneLocked() {
	now := s.now()
	if now.Sub(s.lastPrune) < s.pruneEvery {
		return
	}
	s.lastPrune = now
	for id, e := range s.items {
		stale := now.Sub(e.lastUpdated) > s.maxAge
		expired := !e.expiresAt.IsZero() && now.After(e.expiresAt)
		if stale || expired {
			delete(s.items, id)
		}
	}
}
