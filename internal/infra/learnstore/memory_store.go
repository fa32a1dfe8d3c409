package learnstore

import (
	"context"
	"math"
	"sync"

	"github.com/yanqian/math-agent/internal/domain/solver"
)

// MemoryStore is an in-memory LearningStore used for tests/dev. Both slices
// are append-only; stats read a consistent snapshot under the lock.
type MemoryStore struct {
	mu           sync.RWMutex
	feedback     []solver.RawFeedback
	improvements []solver.ImprovementEvent
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// RecordFeedback implements solver.LearningStore.
func (s *MemoryStore) RecordFeedback(_ context.Context, fb solver.RawFeedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = append(s.feedback, fb)
	return nil
}

// RecordImprovement implements solver.LearningStore.
func (s *MemoryStore) RecordImprovement(_ context.Context, event solver.ImprovementEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.improvements = append(s.improvements, event)
	return nil
}

// Stats implements solver.LearningStore.
func (s *MemoryStore) Stats(_ context.Context) (solver.LearningStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		total     int64
		ratingSum int64
		rated     int64
	)
	methods := make(map[string]int64)
	for _, event := range s.improvements {
		methods[string(event.MethodUsed)]++
		if !event.ImprovementApplied {
			continue
		}
		total++
		if event.Rating != nil {
			ratingSum += int64(*event.Rating)
			rated++
		}
	}

	avg := 0.0
	if rated > 0 {
		avg = math.Round(float64(ratingSum)/float64(rated)*100) / 100
	}

	return solver.LearningStats{
		TotalImprovements: total,
		AverageRating:     avg,
		LearningActive:    total > 0,
		MethodsUsed:       methods,
	}, nil
}

// Feedback returns a copy of the raw feedback rows.
func (s *MemoryStore) Feedback() []solver.RawFeedback {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]solver.RawFeedback(nil), s.feedback...)
}

// Improvements returns a copy of the improvement event rows.
func (s *MemoryStore) Improvements() []solver.ImprovementEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]solver.ImprovementEvent(nil), s.improvements...)
}

var _ solver.LearningStore = (*MemoryStore)(nil)
