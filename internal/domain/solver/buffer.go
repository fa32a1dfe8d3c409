package solver

import "sync"

// trainingBuffer keeps the most recent successful revisions for inspection.
// Bounded: once full, the oldest example is overwritten.
type trainingBuffer struct {
	mu      sync.RWMutex
	entries []TrainingExample
	next    int
	full    bool
}

func newTrainingBuffer(capacity int) *trainingBuffer {
	if capacity <= 0 {
		capacity = 100
	}
	return &trainingBuffer{entries: make([]TrainingExample, capacity)}
}

func (b *trainingBuffer) Add(example TrainingExample) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[b.next] = example
	b.next++
	if b.next == len(b.entries) {
		b.next = 0
		b.full = true
	}
}

func (b *trainingBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.full {
		return len(b.entries)
	}
	return b.next
}

// Examples returns a copy ordered oldest to newest.
func (b *trainingBuffer) Examples() []TrainingExample {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.full {
		return append([]TrainingExample(nil), b.entries[:b.next]...)
	}
	out := make([]TrainingExample, 0, len(b.entries))
	out = append(out, b.entries[b.next:]...)
	out = append(out, b.entries[:b.next]...)
	return out
}
