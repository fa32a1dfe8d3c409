package kbrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/yanqian/math-agent/internal/domain/solver"
)

// PostgresRepository serves nearest-neighbour lookups over the precomputed
// problem/solution pairs using pgvector cosine distance.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// FindNearest returns the closest stored problem and its cosine similarity.
func (r *PostgresRepository) FindNearest(ctx context.Context, embedding []float32) (solver.KBMatch, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT problem, solution, COALESCE(source, ''), 1 - (embedding <=> $1) AS score
		FROM kb_problems
		ORDER BY embedding <=> $1
		LIMIT 1
	`, pgvector.NewVector(embedding))

	var match solver.KBMatch
	if err := row.Scan(&match.Problem, &match.Solution, &match.Source, &match.Score); err != nil {
		if err == pgx.ErrNoRows {
			return solver.KBMatch{}, false, nil
		}
		return solver.KBMatch{}, false, err
	}
	return match, true, nil
}

var _ solver.KnowledgeBase = (*PostgresRepository)(nil)
