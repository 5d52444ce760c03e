// Package testutil holds deterministic stand-ins for the random and ordered
// inputs of the fold log, so scenario runs produce byte-identical records.
package testutil

import "sync"

// Sequence hands out logical sequence numbers 1, 2, 3, ... for fold
// records. It is safe for concurrent use.
type Sequence struct {
	mu  sync.Mutex
	seq int64
}

// NewSequence returns a Sequence whose first Next is 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next advances and returns the sequence number.
func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// Current returns the last number handed out, 0 before the first Next.
func (s *Sequence) Current() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Reset starts the sequence over.
func (s *Sequence) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = 0
}
