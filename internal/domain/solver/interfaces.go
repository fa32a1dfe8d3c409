package solver

import (
	"context"

	"github.com/yanqian/math-agent/internal/infra/llm/chatgpt"
)

// ChatClient issues completion and embedding calls.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
	CreateEmbedding(ctx context.Context, req chatgpt.EmbeddingRequest) (chatgpt.EmbeddingResponse, error)
}

// KnowledgeBase performs nearest-neighbour lookup over the precomputed
// problem/solution pairs.
type KnowledgeBase interface {
	FindNearest(ctx context.Context, embedding []float32) (KBMatch, bool, error)
}

// WebSearcher returns text snippets for a query.
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// LearningStore persists feedback and improvement events and aggregates them.
type LearningStore interface {
	RecordFeedback(ctx context.Context, fb RawFeedback) error
	RecordImprovement(ctx context.Context, event ImprovementEvent) error
	Stats(ctx context.Context) (LearningStats, error)
}

// TokenCounter counts tokens for usage reporting.
type TokenCounter interface {
	Count(text string) int
}
