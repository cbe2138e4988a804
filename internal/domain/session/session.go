// Package session holds the per-conversation state owned exclusively by one session.
package session

import (
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/dialogue"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/preference"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/recommendation"
)

// maxShown bounds the shown-item history.
const maxShown = 50

// TopK is the diversity cache entry: the best candidates for one search fingerprint.
type TopK struct {
	Fingerprint string
	Window      []recommendation.Scored
}

// Valid reports whether the entry holds a ranking for a fingerprint.
func (c TopK) Valid() bool { return c.Fingerprint != "" && len(c.Window) > 0 }

// Session is one conversation. Callers serialize access with Lock/Unlock.
type Session struct {
	mu sync.Mutex

	ID             string
	Preferences    preference.Set
	State          dialogue.State
	Cache          TopK
	ExcludedBrands []string
	Shown          []recommendation.Recommendation
	OffTopicStreak int
	Rand           *rand.Rand
}

// New creates a session in the initial state. rng drives diversity sampling.
func New(id string, rng *rand.Rand) *Session {
	return &Session{ID: id, State: dialogue.Initial, Rand: rng}
}

// Lock acquires exclusive access for one turn.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the turn lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Reset clears preferences, cache, excluded brands and history, returning to Initial.
// The random source is kept.
func (s *Session) Reset() {
	s.Preferences = preference.Set{}
	s.State = dialogue.Initial
	s.Cache = TopK{}
	s.ExcludedBrands = nil
	s.Shown = nil
	s.OffTopicStreak = 0
}

// ExcludeBrands adds brands to the excluded set. The set only grows within a session.
func (s *Session) ExcludeBrands(brands ...string) {
	for _, b := range brands {
		b = strings.ToLower(strings.TrimSpace(b))
		if b == "" || slices.Contains(s.ExcludedBrands, b) {
			continue
		}
		s.ExcludedBrands = append(s.ExcludedBrands, b)
	}
	slices.Sort(s.ExcludedBrands)
}

// RecordShown appends recommendations to the history, keeping the newest maxShown.
func (s *Session) RecordShown(recs []recommendation.Recommendation) {
	s.Shown = append(s.Shown, recs...)
	if over := len(s.Shown) - maxShown; over > 0 {
		s.Shown = slices.Clone(s.Shown[over:])
	}
}

// ShownAveragePrice averages the known prices of the last n shown items.
func (s *Session) ShownAveragePrice(n int) (float64, bool) {
	start := max(len(s.Shown)-n, 0)
	var sum float64
	var count int
	for _, r := range s.Shown[start:] {
		if r.HasPrice {
			sum += r.Price
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}
