package store

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rshade/smartcarbon/internal/stage"
)

// ErrInvalidValue is returned by Set for NaN or infinite values.
var ErrInvalidValue = errors.New("prediction must be a finite number")

// Entry is one stored prediction.
type Entry struct {
	Stage     stage.Stage `json:"stage"`
	KgCO2e    float64     `json:"kg_co2e"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Age returns how long ago the entry was written.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.UpdatedAt)
}

// IsExpired reports whether the entry is older than maxAge. A zero maxAge
// never expires.
func (e Entry) IsExpired(now time.Time, maxAge time.Duration) bool {
	return maxAge > 0 && e.Age(now) > maxAge
}

// Store maps stages to predictions. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	id      string
	entries map[stage.Stage]Entry
	now     func() time.Time
}

// New returns an empty store with a fresh session ID.
func New() *Store {
	return &Store{
		id:      ulid.Make().String(),
		entries: make(map[stage.Stage]Entry),
		now:     time.Now,
	}
}

// ID returns the session identifier.
func (s *Store) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// Set records the prediction for st, replacing any previous value.
func (s *Store) Set(st stage.Stage, kg float64) error {
	if !st.Valid() {
		return fmt.Errorf("%w: %q", stage.ErrUnknownStage, st)
	}
	if math.IsNaN(kg) || math.IsInf(kg, 0) {
		return ErrInvalidValue
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[st] = Entry{Stage: st, KgCO2e: kg, UpdatedAt: s.now()}
	return nil
}

// Get returns the prediction for st, or 0 when unset.
func (s *Store) Get(st stage.Stage) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[st].KgCO2e
}

// Lookup returns the entry for st and whether it was set.
func (s *Store) Lookup(st stage.Stage) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[st]
	return e, ok
}

// Snapshot returns every stage's value, unset stages as 0.
func (s *Store) Snapshot() map[stage.Stage]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[stage.Stage]float64, len(stage.All()))
	for _, st := range stage.All() {
		out[st] = s.entries[st].KgCO2e
	}
	return out
}

// Entries returns the set entries in pipeline order.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.entries))
	for _, st := range stage.All() {
		if e, ok := s.entries[st]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Total sums all five stages.
func (s *Store) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0.0
	for _, st := range stage.All() {
		total += s.entries[st].KgCO2e
	}
	return total
}

// Reset clears every prediction and starts a new session.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[stage.Stage]Entry)
	s.id = ulid.Make().String()
}

// restore installs a loaded entry without touching its timestamp.
func (s *Store) restore(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.Stage] = e
}
