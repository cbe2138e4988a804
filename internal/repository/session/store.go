// Package session keeps live conversations in memory with idle expiry.
package session

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain"
	domsession "github.com/Emberalive/laptop-chatbot-sub000/internal/domain/session"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/metrics"
)

// Defaults applied when Config leaves a field at zero.
const (
	DefaultTTL             = 30 * time.Minute
	DefaultCleanupInterval = 5 * time.Minute
)

// Config tunes the session store.
type Config struct {
	TTL             time.Duration
	CleanupInterval time.Duration
	// Seed makes the per-session random sources reproducible. Zero seeds from the clock.
	Seed uint64
}

// Store holds sessions keyed by an opaque UUID handle. Each Get refreshes the idle timer.
type Store struct {
	cache  *cache.Cache
	ttl    time.Duration
	logger *zap.Logger

	mu   sync.Mutex
	seed uint64
	seq  uint64
}

// NewStore creates a session store.
func NewStore(cfg Config, logger *zap.Logger) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultCleanupInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	s := &Store{
		cache:  cache.New(cfg.TTL, cfg.CleanupInterval),
		ttl:    cfg.TTL,
		logger: logger,
		seed:   seed,
	}
	s.cache.OnEvicted(func(id string, _ any) {
		metrics.ActiveSessions.Set(float64(s.cache.ItemCount()))
		s.logger.Debug("Session evicted", zap.String("session_id", id))
	})
	return s
}

// Create starts a new session in the initial state.
func (s *Store) Create() *domsession.Session {
	id := uuid.NewString()
	sess := domsession.New(id, rand.New(s.nextSource()))
	s.cache.Set(id, sess, cache.DefaultExpiration)
	metrics.ActiveSessions.Set(float64(s.cache.ItemCount()))
	s.logger.Debug("Session created", zap.String("session_id", id))
	return sess
}

// Get returns the session for id and extends its lifetime.
func (s *Store) Get(id string) (*domsession.Session, error) {
	x, found := s.cache.Get(id)
	if !found {
		return nil, fmt.Errorf("session %q: %w", id, domain.ErrSessionNotFound)
	}
	sess := x.(*domsession.Session)
	s.cache.Set(id, sess, cache.DefaultExpiration)
	return sess, nil
}

// Delete removes a session. Unknown ids return ErrSessionNotFound.
func (s *Store) Delete(id string) error {
	if _, found := s.cache.Get(id); !found {
		return fmt.Errorf("session %q: %w", id, domain.ErrSessionNotFound)
	}
	s.cache.Delete(id)
	return nil
}

// Len returns the number of live sessions, including expired ones not yet swept.
func (s *Store) Len() int { return s.cache.ItemCount() }

func (s *Store) nextSource() rand.Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return rand.NewPCG(s.seed, s.seq)
}
