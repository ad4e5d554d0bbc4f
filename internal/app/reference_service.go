package app

import (
	"strconv"
	"sync"
)

// ReferenceService issues unique booking references: the hex form of a
// monotonically increasing counter. Keeping a counter (rather than
// random ids) lets the service replay the last reference it issued,
// which the end-to-end tests rely on.
type ReferenceService struct {
	mu      sync.Mutex
	counter uint64
}

const defaultReferenceStart = 123456789

func NewReferenceService() *ReferenceService {
	return NewReferenceServiceAt(defaultReferenceStart)
}

// NewReferenceServiceAt starts the counter at a chosen point; tests
// use this to get predictable references.
func NewReferenceServiceAt(start uint64) *ReferenceService {
	return &ReferenceService{counter: start}
}

// NextReference issues a fresh reference. No two calls, concurrent or
// not, return the same value.
func (s *ReferenceService) NextReference() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	return strconv.FormatUint(s.counter, 16)
}

// LastReference returns the most recently issued reference.
func (s *ReferenceService) LastReference() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strconv.FormatUint(s.counter, 16)
}
