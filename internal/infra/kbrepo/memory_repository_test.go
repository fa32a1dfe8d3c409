package kbrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryEmpty(t *testing.T) {
	repo := NewMemoryRepository()

	_, found, err := repo.FindNearest(context.Background(), []float32{1, 0})
	require.NoError(t, err)
	require.False(t, found)
}

func TestMemoryRepositoryFindsNearest(t *testing.T) {
	repo := NewMemoryRepository()
	repo.Insert("integrate x", "x^2/2", "KB", []float32{1, 0, 0})
	repo.Insert("derivative of x^2", "2x", "JEE Bench", []float32{0, 1, 0})

	match, found, err := repo.FindNearest(context.Background(), []float32{0.1, 0.9, 0})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "derivative of x^2", match.Problem)
	require.Equal(t, "2x", match.Solution)
	require.Equal(t, "JEE Bench", match.Source)
	require.InDelta(t, 0.993, match.Score, 0.01)
}

func TestCosineSimilarity(t *testing.T) {
	require.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2}, []float32{1, 2}), 1e-9)
	require.Equal(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}))
	require.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}
