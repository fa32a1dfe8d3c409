package learnstore

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/math-agent/internal/domain/solver"
)

func TestMemoryStoreStatsEmpty(t *testing.T) {
	store := NewMemoryStore()

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	require.Zero(t, stats.TotalImprovements)
	require.Equal(t, 0.0, stats.AverageRating)
	require.False(t, stats.LearningActive)
	require.Empty(t, stats.MethodsUsed)
}

func TestMemoryStoreStatsAggregation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rate := func(n int) *int { return &n }

	events := []solver.ImprovementEvent{
		{ID: uuid.New(), MethodUsed: solver.MethodPrimaryImproved, ImprovementApplied: true, Rating: rate(4)},
		{ID: uuid.New(), MethodUsed: solver.MethodPrimaryImproved, ImprovementApplied: true, Rating: rate(3)},
		{ID: uuid.New(), MethodUsed: solver.MethodFallbackImproved, ImprovementApplied: true},
		{ID: uuid.New(), MethodUsed: solver.MethodError, ImprovementApplied: false, Rating: rate(1)},
	}
	for _, event := range events {
		require.NoError(t, store.RecordImprovement(ctx, event))
	}

	stats, err := store.Stats(ctx)
	require.NoError(t, err)

	require.Equal(t, int64(3), stats.TotalImprovements)
	require.Equal(t, 3.5, stats.AverageRating)
	require.True(t, stats.LearningActive)
	require.Equal(t, map[string]int64{
		"primary_improved":  2,
		"fallback_improved": 1,
		"error":             1,
	}, stats.MethodsUsed)
}

func TestMemoryStoreStatsRounding(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rate := func(n int) *int { return &n }
	ratings := []*int{rate(5), rate(4), rate(4)}
	for _, r := range ratings {
		require.NoError(t, store.RecordImprovement(ctx, solver.ImprovementEvent{
			ID:                 uuid.New(),
			MethodUsed:         solver.MethodPrimaryImproved,
			ImprovementApplied: true,
			Rating:             r,
		}))
	}

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 4.33, stats.AverageRating)
}

func TestMemoryStoreRecordFeedback(t *testing.T) {
	store := NewMemoryStore()

	fb := solver.RawFeedback{ID: uuid.New(), Question: "q", Answer: "a", Comment: "c"}
	require.NoError(t, store.RecordFeedback(context.Background(), fb))

	rows := store.Feedback()
	require.Len(t, rows, 1)
	require.Equal(t, fb.ID, rows[0].ID)
	require.Equal(t, "q", rows[0].Question)
}
