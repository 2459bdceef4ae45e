// Package logstore keeps a volatile, capped record of recent requests
// for the logs endpoint. Nothing here survives a process restart.
package logstore

import (
	"sync"
	"time"
)

// DefaultCapacity is how many entries the ring retains.
const DefaultCapacity = 100

// Outcome classifies how a request ended.
type Outcome string

// Request outcomes.
const (
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"
)

// Entry is one recorded request.
type Entry struct {
	// Time is when the request completed.
	Time time.Time `json:"time"`

	// RequestID correlates the entry with the request log lines.
	RequestID string `json:"request_id"`

	// Model is the resolved model the request targeted.
	Model string `json:"model,omitempty"`

	// Outcome is success or error.
	Outcome Outcome `json:"outcome"`

	// Summary is a short bounded description, such as the error text.
	Summary string `json:"summary,omitempty"`

	// DurationMs is the request's wall time in milliseconds.
	DurationMs int64 `json:"duration_ms"`
}

// Store is a fixed-capacity ring of request entries. Once full, each
// append evicts the oldest entry. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
}

// New creates a store holding at most capacity entries. A
// non-positive capacity falls back to DefaultCapacity.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{entries: make([]Entry, capacity)}
}

// Append records an entry, evicting the oldest when the ring is full.
func (s *Store) Append(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[s.next] = e
	s.next++
	if s.next == len(s.entries) {
		s.next = 0
		s.full = true
	}
}

// List returns the retained entries, newest first, optionally filtered
// by outcome. An empty outcome returns everything. The result is a
// copy; callers may not mutate the store through it.
func (s *Store) List(outcome Outcome) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	size := s.next
	if s.full {
		size = len(s.entries)
	}

	out := make([]Entry, 0, size)
	// Walk backwards from the most recent slot.
	for i := 0; i < size; i++ {
		idx := (s.next - 1 - i + len(s.entries)) % len(s.entries)
		e := s.entries[idx]
		if outcome != "" && e.Outcome != outcome {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Len reports how many entries the ring currently holds.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.full {
		return len(s.entries)
	}
	return s.next
}
