package sink

import (
	"context"
	"sync"

	"github.com/firasmosbehi/about-us-team-extractor/internal/extractor"
)

// Memory collects records in memory. Intended for tests and dry runs.
type Memory struct {
	mu      sync.Mutex
	records []extractor.OutputRecord
}

// NewMemory creates an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Emit stores rec.
func (s *Memory) Emit(_ context.Context, rec extractor.OutputRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// Records returns a copy of everything emitted so far.
func (s *Memory) Records() []extractor.OutputRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]extractor.OutputRecord, len(s.records))
	copy(out, s.records)
	return out
}
