package solver

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/yanqian/math-agent/internal/infra/llm/chatgpt"
)

const (
	sourceWeb       = "web"
	defaultKBSource = "Knowledge Base"
)

// router decides between knowledge-base and web-search context.
type router struct {
	threshold      float64
	embeddingModel string
	kb             KnowledgeBase
	web            WebSearcher
	client         ChatClient
	logger         *slog.Logger
}

func newRouter(cfg Config, kb KnowledgeBase, web WebSearcher, client ChatClient, logger *slog.Logger) *router {
	return &router{
		threshold:      cfg.KBMatchThreshold,
		embeddingModel: cfg.EmbeddingModel,
		kb:             kb,
		web:            web,
		client:         client,
		logger:         logger.With("component", "solver.router"),
	}
}

// route returns the context source and text for a question. Backend failures
// are logged and degrade to the next option; route itself never fails.
func (r *router) route(ctx context.Context, question string) (string, string) {
	if match, ok := r.lookupKnowledgeBase(ctx, question); ok {
		source := match.Source
		if strings.TrimSpace(source) == "" {
			source = defaultKBSource
		}
		contextText := match.Problem
		if strings.TrimSpace(contextText) == "" {
			contextText = match.Solution
		}
		r.logger.Info("knowledge base context selected", "score", match.Score, "source", source)
		return source, contextText
	}

	snippets, err := r.web.Search(ctx, question)
	if err != nil {
		r.logger.Warn("web search failed", "error", err)
		return sourceWeb, ""
	}
	return sourceWeb, strings.Join(snippets, "\n")
}

func (r *router) lookupKnowledgeBase(ctx context.Context, question string) (KBMatch, bool) {
	embedding, err := r.embed(ctx, question)
	if err != nil {
		r.logger.Warn("question embedding failed", "error", err)
		return KBMatch{}, false
	}

	match, found, err := r.kb.FindNearest(ctx, embedding)
	if err != nil {
		r.logger.Warn("knowledge base search failed", "error", err)
		return KBMatch{}, false
	}
	if !found {
		return KBMatch{}, false
	}
	// The threshold boundary is inclusive.
	if match.Score < r.threshold {
		r.logger.Info("knowledge base score below threshold", "score", match.Score, "threshold", r.threshold)
		return KBMatch{}, false
	}
	return match, true
}

func (r *router) embed(ctx context.Context, question string) ([]float32, error) {
	resp, err := r.client.CreateEmbedding(ctx, chatgpt.EmbeddingRequest{
		Model: r.embeddingModel,
		Input: question,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, errors.New("embedding response empty")
	}
	vector := make([]float32, len(resp.Data[0].Embedding))
	copy(vector, resp.Data[0].Embedding)
	return vector, nil
}
