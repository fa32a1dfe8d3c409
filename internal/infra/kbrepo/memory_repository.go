package kbrepo

import (
	"context"
	"math"
	"sync"

	"github.com/yanqian/math-agent/internal/domain/solver"
)

type memoryEntry struct {
	problem   string
	solution  string
	source    string
	embedding []float32
}

// MemoryRepository is an in-memory KnowledgeBase used for tests/dev.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []memoryEntry
}

// NewMemoryRepository constructs an empty in-memory knowledge base.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Insert seeds one problem/solution pair.
func (r *MemoryRepository) Insert(problem, solution, source string, embedding []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, memoryEntry{
		problem:   problem,
		solution:  solution,
		source:    source,
		embedding: append([]float32(nil), embedding...),
	})
}

// FindNearest implements solver.KnowledgeBase using cosine similarity.
func (r *MemoryRepository) FindNearest(_ context.Context, embedding []float32) (solver.KBMatch, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		best   solver.KBMatch
		hasAny bool
	)
	for _, entry := range r.entries {
		score := cosineSimilarity(embedding, entry.embedding)
		if !hasAny || score > best.Score {
			hasAny = true
			best = solver.KBMatch{
				Score:    score,
				Source:   entry.source,
				Problem:  entry.problem,
				Solution: entry.solution,
			}
		}
	}
	if !hasAny {
		return solver.KBMatch{}, false, nil
	}
	return best, true, nil
}

func cosineSimilarity(a, b []float32) float64 {
	length := len(a)
	if len(b) < length {
		length = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < length; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

var _ solver.KnowledgeBase = (*MemoryRepository)(nil)
