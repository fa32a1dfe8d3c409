package solver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/math-agent/pkg/errors"
	"github.com/yanqian/math-agent/pkg/metrics"
)

// Service exposes the question-answering and feedback-improvement pipelines.
type Service interface {
	Ask(ctx context.Context, req AskRequest) (AskResponse, error)
	Feedback(ctx context.Context, req FeedbackRequest) (FeedbackResponse, error)
	Improve(ctx context.Context, req ImproveRequest) (ImproveResponse, error)
	Metrics(ctx context.Context) (LearningStats, error)
	Status() Status
}

type service struct {
	cfg       Config
	guardrail *Guardrail
	router    *router
	generator *Generator
	improver  *Improver
	store     LearningStore
	tokens    TokenCounter
	logger    *slog.Logger
}

// NewService wires up the solver domain.
func NewService(cfg Config, kb KnowledgeBase, web WebSearcher, client ChatClient, store LearningStore, tokens TokenCounter, logger *slog.Logger) Service {
	log := logger.With("component", "solver.service")
	return &service{
		cfg:       cfg,
		guardrail: NewGuardrail(cfg.MathKeywords, cfg.BannedTopics),
		router:    newRouter(cfg, kb, web, client, logger),
		generator: newGenerator(cfg, client, logger),
		improver:  newImprover(cfg, client, store, logger),
		store:     store,
		tokens:    tokens,
		logger:    log,
	}
}

func (s *service) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" || !s.guardrail.Admit(question) {
		return AskResponse{}, apperrors.Wrap("invalid_input", "only mathematics-related queries are allowed, try phrasing the math problem more explicitly", nil)
	}

	source, contextText := s.router.route(ctx, question)
	answer := s.generator.Generate(ctx, question, contextText)

	steps := make([]string, 0, len(answer.Steps))
	for _, step := range answer.Steps {
		steps = append(steps, s.guardrail.Sanitize(step))
	}
	final := s.guardrail.Sanitize(answer.FinalAnswer)

	s.logger.Info("question answered", "source", source, "method", answer.Method, "confidence", answer.Confidence)

	return AskResponse{
		Question:    question,
		Source:      source,
		Steps:       steps,
		FinalAnswer: final,
		Enhanced:    s.generator.Enhanced(),
		Method:      answer.Method,
		Confidence:  answer.Confidence,
		TokenUsage:  s.usage(question, contextText, steps, final),
	}, nil
}

func (s *service) Feedback(ctx context.Context, req FeedbackRequest) (FeedbackResponse, error) {
	question := strings.TrimSpace(req.Question)
	answer := strings.TrimSpace(req.Answer)
	if question == "" || answer == "" {
		return FeedbackResponse{}, apperrors.Wrap("invalid_input", "question and answer are required", nil)
	}

	// The raw feedback row is persisted no matter what happens next.
	fb := RawFeedback{
		ID:        uuid.New(),
		Question:  question,
		Answer:    answer,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.RecordFeedback(ctx, fb); err != nil {
		s.logger.Error("feedback not recorded", "error", err)
	}

	if req.Rating == nil && fb.Comment == "" {
		return FeedbackResponse{
			Status:     "ok",
			Enhanced:   s.improver.Enhanced(),
			MethodUsed: MethodStandard,
		}, nil
	}

	feedbackText := fb.Comment
	if feedbackText == "" {
		feedbackText = fmt.Sprintf("Rating: %d/5", *req.Rating)
	}

	improvement := s.improver.Improve(ctx, question, answer, feedbackText, req.Rating)

	return FeedbackResponse{
		Status:             "ok",
		Enhanced:           s.improver.Enhanced(),
		ImprovementApplied: improvement.Applied,
		MethodUsed:         improvement.Answer.Method,
		ImprovedSteps:      s.sanitizeAll(improvement.Answer.Steps),
	}, nil
}

func (s *service) Improve(ctx context.Context, req ImproveRequest) (ImproveResponse, error) {
	question := strings.TrimSpace(req.Question)
	original := strings.TrimSpace(req.OriginalSolution)
	feedback := strings.TrimSpace(req.Feedback)
	if question == "" || original == "" || feedback == "" {
		return ImproveResponse{}, apperrors.Wrap("invalid_input", "missing required fields: question, original_solution, feedback", nil)
	}
	if !s.improver.Enhanced() {
		return ImproveResponse{}, apperrors.Wrap("enhanced_unavailable", "solution improvement requires the enhanced solver", nil)
	}

	// Manual improvement requests carry a neutral default rating.
	rating := 3
	improvement := s.improver.Improve(ctx, question, original, feedback, &rating)

	return ImproveResponse{
		ImprovedSteps:      s.sanitizeAll(improvement.Answer.Steps),
		FinalAnswer:        s.guardrail.Sanitize(improvement.Answer.FinalAnswer),
		Method:             improvement.Answer.Method,
		ImprovementApplied: improvement.Applied,
	}, nil
}

func (s *service) Metrics(ctx context.Context) (LearningStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		s.logger.Error("learning stats unavailable", "error", err)
		return LearningStats{MethodsUsed: map[string]int64{}}, nil
	}
	return stats, nil
}

func (s *service) Status() Status {
	return Status{
		Enhanced:         s.improver.Enhanced(),
		BufferedExamples: s.improver.BufferedExamples(),
	}
}

func (s *service) sanitizeAll(steps []string) []string {
	if len(steps) == 0 {
		return nil
	}
	out := make([]string, 0, len(steps))
	for _, step := range steps {
		out = append(out, s.guardrail.Sanitize(step))
	}
	return out
}

func (s *service) usage(question, contextText string, steps []string, final string) *metrics.TokenUsage {
	if s.tokens == nil {
		return nil
	}
	prompt := s.tokens.Count(question + "\n" + contextText)
	completion := s.tokens.Count(strings.Join(steps, "\n") + "\n" + final)
	usage := metrics.Sum(prompt, completion)
	if usage.IsZero() {
		return nil
	}
	return &usage
}
