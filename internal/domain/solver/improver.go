package solver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Improver revises prior answers based on human feedback and reports every
// attempt to the learning store.
type Improver struct {
	cfg    Config
	client ChatClient
	store  LearningStore
	buffer *trainingBuffer
	logger *slog.Logger
}

func newImprover(cfg Config, client ChatClient, store LearningStore, logger *slog.Logger) *Improver {
	return &Improver{
		cfg:    cfg,
		client: client,
		store:  store,
		buffer: newTrainingBuffer(cfg.TrainingBufferSize),
		logger: logger.With("component", "solver.improver"),
	}
}

// Enhanced reports whether the primary revision strategy is available.
func (i *Improver) Enhanced() bool {
	return i.cfg.Enhanced
}

// BufferedExamples returns how many revisions the inspection buffer holds.
func (i *Improver) BufferedExamples() int {
	return i.buffer.Len()
}

// Improve runs the revision chain and records exactly one improvement event,
// win or lose. It never fails: total strategy failure yields an error-method
// answer with Applied=false.
func (i *Improver) Improve(ctx context.Context, question, original, feedback string, rating *int) Improvement {
	result, raw := i.revise(ctx, question, original, feedback)

	event := ImprovementEvent{
		ID:                 uuid.New(),
		Question:           question,
		OriginalSolution:   original,
		FeedbackText:       feedback,
		Rating:             rating,
		ImprovedSolution:   raw,
		MethodUsed:         result.Answer.Method,
		ImprovementApplied: result.Applied,
		CreatedAt:          time.Now().UTC(),
	}
	if err := i.store.RecordImprovement(ctx, event); err != nil {
		i.logger.Error("improvement event not recorded", "error", err)
	}

	return result
}

func (i *Improver) revise(ctx context.Context, question, original, feedback string) (Improvement, string) {
	var lastErr error

	if i.cfg.Enhanced {
		raw, err := i.reviseWithReasoning(ctx, question, original, feedback)
		if err == nil {
			i.buffer.Add(TrainingExample{
				Question: question,
				Original: original,
				Feedback: feedback,
				Improved: raw,
			})
			return Improvement{
				Answer: GeneratedAnswer{
					Steps:       parseSolutionSteps(raw),
					FinalAnswer: extractFinalAnswer(raw),
					Method:      MethodPrimaryImproved,
					Confidence:  0.8,
				},
				Applied: true,
			}, raw
		}
		i.logger.Warn("primary improvement failed", "error", err)
		lastErr = err
	}

	raw, err := i.reviseFreeform(ctx, question, original, feedback)
	if err == nil {
		return Improvement{
			Answer: GeneratedAnswer{
				Steps:       parseSolutionSteps(raw),
				FinalAnswer: extractFinalAnswer(raw),
				Method:      MethodFallbackImproved,
				Confidence:  0.6,
			},
			Applied: true,
		}, raw
	}
	i.logger.Warn("fallback improvement failed", "error", err)
	if lastErr == nil {
		lastErr = err
	}

	failure := errorAnswer("improvement", lastErr)
	return Improvement{Answer: failure, Applied: false}, ""
}

func (i *Improver) reviseWithReasoning(ctx context.Context, question, original, feedback string) (string, error) {
	prompt := fmt.Sprintf(
		"A student gave feedback on your solution. Reason through what was wrong or missing and produce an improved step-by-step solution that addresses the feedback, ending with the final answer.\n\nOriginal Question: %s\nOriginal Solution: %s\nStudent Feedback: %s",
		question, original, feedback,
	)
	return completeText(ctx, i.client, i.cfg, professorSystemPrompt, prompt)
}

func (i *Improver) reviseFreeform(ctx context.Context, question, original, feedback string) (string, error) {
	prompt := fmt.Sprintf(
		"A student has provided feedback on your solution. Please provide an improved step-by-step solution that addresses it.\n\nOriginal Question: %s\nOriginal Solution: %s\nStudent Feedback: %s",
		question, original, feedback,
	)
	system := "You are a helpful math professor who improves explanations based on feedback."
	raw, err := completeText(ctx, i.client, i.cfg, system, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}
