package solver

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/yanqian/math-agent/internal/infra/llm/chatgpt"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func completionResponse(content string) chatgpt.ChatCompletionResponse {
	var resp chatgpt.ChatCompletionResponse
	resp.Choices = []struct {
		Message chatgpt.Message `json:"message"`
	}{
		{Message: chatgpt.Message{Role: "assistant", Content: content}},
	}
	return resp
}

func embeddingResponse(vector []float32) chatgpt.EmbeddingResponse {
	var resp chatgpt.EmbeddingResponse
	resp.Data = []struct {
		Embedding []float32 `json:"embedding"`
	}{
		{Embedding: vector},
	}
	return resp
}

// stubChatClient replays canned completions in call order. A non-nil entry
// in completionErrs makes that call fail instead.
type stubChatClient struct {
	completions    []chatgpt.ChatCompletionResponse
	completionErrs []error
	embedding      chatgpt.EmbeddingResponse
	embeddingErr   error
	calls          int
	prompts        []string
}

func (s *stubChatClient) CreateChatCompletion(_ context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	idx := s.calls
	s.calls++
	if len(req.Messages) > 0 {
		s.prompts = append(s.prompts, req.Messages[len(req.Messages)-1].Content)
	}
	if idx < len(s.completionErrs) && s.completionErrs[idx] != nil {
		return chatgpt.ChatCompletionResponse{}, s.completionErrs[idx]
	}
	if idx < len(s.completions) {
		return s.completions[idx], nil
	}
	return chatgpt.ChatCompletionResponse{}, nil
}

func (s *stubChatClient) CreateEmbedding(_ context.Context, _ chatgpt.EmbeddingRequest) (chatgpt.EmbeddingResponse, error) {
	if s.embeddingErr != nil {
		return chatgpt.EmbeddingResponse{}, s.embeddingErr
	}
	return s.embedding, nil
}

type stubKnowledgeBase struct {
	match KBMatch
	found bool
	err   error
}

func (s *stubKnowledgeBase) FindNearest(_ context.Context, _ []float32) (KBMatch, bool, error) {
	return s.match, s.found, s.err
}

type stubWebSearcher struct {
	snippets []string
	err      error
	queries  []string
}

func (s *stubWebSearcher) Search(_ context.Context, query string) ([]string, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.snippets, nil
}

type stubLearningStore struct {
	mu           sync.Mutex
	feedback     []RawFeedback
	improvements []ImprovementEvent
	stats        LearningStats
	statsErr     error
	recordErr    error
}

func (s *stubLearningStore) RecordFeedback(_ context.Context, fb RawFeedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recordErr != nil {
		return s.recordErr
	}
	s.feedback = append(s.feedback, fb)
	return nil
}

func (s *stubLearningStore) RecordImprovement(_ context.Context, event ImprovementEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recordErr != nil {
		return s.recordErr
	}
	s.improvements = append(s.improvements, event)
	return nil
}

func (s *stubLearningStore) Stats(_ context.Context) (LearningStats, error) {
	if s.statsErr != nil {
		return LearningStats{}, s.statsErr
	}
	return s.stats, nil
}

type stubTokenCounter struct{}

func (stubTokenCounter) Count(text string) int {
	return len(text)
}
