package learnstore

import (
	"context"
	"math"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/math-agent/internal/domain/solver"
)

// PostgresStore persists feedback and improvement events in two append-only
// tables. Each record call is a single committed insert.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs the store, creating the tables on first run.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	store := &PostgresStore{pool: pool}
	if err := store.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS feedback (
			id UUID PRIMARY KEY,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			rating INTEGER,
			comment TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS improvement_events (
			id UUID PRIMARY KEY,
			question TEXT NOT NULL,
			original_solution TEXT NOT NULL,
			feedback_text TEXT NOT NULL,
			rating INTEGER,
			improved_solution TEXT NOT NULL DEFAULT '',
			method_used TEXT NOT NULL,
			improvement_applied BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

// RecordFeedback appends one raw feedback row.
func (s *PostgresStore) RecordFeedback(ctx context.Context, fb solver.RawFeedback) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO feedback (id, question, answer, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, fb.ID, fb.Question, fb.Answer, fb.Rating, fb.Comment, fb.CreatedAt)
	return err
}

// RecordImprovement appends one improvement event row.
func (s *PostgresStore) RecordImprovement(ctx context.Context, event solver.ImprovementEvent) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO improvement_events
			(id, question, original_solution, feedback_text, rating, improved_solution, method_used, improvement_applied, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, event.ID, event.Question, event.OriginalSolution, event.FeedbackText, event.Rating,
		event.ImprovedSolution, string(event.MethodUsed), event.ImprovementApplied, event.CreatedAt)
	return err
}

// Stats aggregates the improvement events table.
func (s *PostgresStore) Stats(ctx context.Context) (solver.LearningStats, error) {
	var (
		total int64
		avg   float64
	)
	row := s.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(AVG(rating), 0)
		FROM improvement_events
		WHERE improvement_applied
	`)
	if err := row.Scan(&total, &avg); err != nil {
		return solver.LearningStats{}, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT method_used, COUNT(*)
		FROM improvement_events
		GROUP BY method_used
	`)
	if err != nil {
		return solver.LearningStats{}, err
	}
	defer rows.Close()

	methods := make(map[string]int64)
	for rows.Next() {
		var (
			method string
			count  int64
		)
		if err := rows.Scan(&method, &count); err != nil {
			return solver.LearningStats{}, err
		}
		methods[method] = count
	}
	if err := rows.Err(); err != nil {
		return solver.LearningStats{}, err
	}

	return solver.LearningStats{
		TotalImprovements: total,
		AverageRating:     math.Round(avg*100) / 100,
		LearningActive:    total > 0,
		MethodsUsed:       methods,
	}, nil
}

var _ solver.LearningStore = (*PostgresStore)(nil)
