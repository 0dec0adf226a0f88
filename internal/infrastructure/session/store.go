// Package session keeps per-visitor dashboard state in memory.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/obpp/dashboard/internal/domain/tabular"
)

// Session is the state of one dashboard visitor
type Session struct {
	ID string
	// BrokerDirectory memoizes the deduplicated broker list for this visitor
	BrokerDirectory *Slot[*tabular.Dataset]
}

type entry struct {
	session   *Session
	expiresAt time.Time
}

// Config holds session store settings
type Config struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

// Store holds sessions in memory and evicts them after TTL of inactivity.
// This is suitable for single-instance deployments.
type Store struct {
	mu        sync.RWMutex
	entries   map[string]entry
	ttl       time.Duration
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewStore creates a store and starts its background cleanup goroutine
func NewStore(cfg Config) *Store {
	return newStore(cfg, time.Now)
}

func newStore(cfg Config, now func() time.Time) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}
	s := &Store{
		entries:  make(map[string]entry),
		ttl:      cfg.TTL,
		now:      now,
		stopChan: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop(cfg.CleanupInterval)

	return s
}

// Get returns the live session with id and extends its lifetime
func (s *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if now.After(e.expiresAt) {
		delete(s.entries, id)
		return nil, false
	}
	e.expiresAt = now.Add(s.ttl)
	s.entries[id] = e
	return e.session, true
}

// Create starts a new session with a random ID
func (s *Store) Create() *Session {
	now := s.now()
	sess := &Session{
		ID:              uuid.NewString(),
		BrokerDirectory: NewSlot[*tabular.Dataset](),
	}

	s.mu.Lock()
	s.entries[sess.ID] = entry{session: sess, expiresAt: now.Add(s.ttl)}
	s.mu.Unlock()
	return sess
}

// GetOrCreate returns the live session with id, or a new one. created
// reports whether a new session was started.
func (s *Store) GetOrCreate(id string) (sess *Session, created bool) {
	if sess, ok := s.Get(id); ok {
		return sess, false
	}
	return s.Create(), true
}

// Size returns the number of stored sessions, expired ones included until cleanup
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *Store) cleanupLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup removes expired sessions
func (s *Store) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}
