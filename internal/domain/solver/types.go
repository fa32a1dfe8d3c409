package solver

import (
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/math-agent/pkg/metrics"
)

// Method identifies which strategy produced an answer.
type Method string

const (
	// MethodPrimary marks answers produced by the chain-of-thought strategy.
	MethodPrimary Method = "primary"
	// MethodFallback marks answers produced by the structured-payload strategy.
	MethodFallback Method = "fallback"
	// MethodError marks the terminal failure state after all strategies failed.
	MethodError Method = "error"
	// MethodPrimaryImproved marks revisions produced by the primary improver.
	MethodPrimaryImproved Method = "primary_improved"
	// MethodFallbackImproved marks revisions produced by the fallback improver.
	MethodFallbackImproved Method = "fallback_improved"
	// MethodStandard marks feedback accepted without an improvement pass.
	MethodStandard Method = "standard"
)

// GeneratedAnswer is the immutable result of one generation or improvement
// attempt. Confidence is a heuristic quality signal, not a probability.
type GeneratedAnswer struct {
	Steps       []string
	FinalAnswer string
	Method      Method
	Confidence  float64
}

// Improvement bundles a revised answer with whether the revision succeeded.
type Improvement struct {
	Answer  GeneratedAnswer
	Applied bool
}

// KBMatch is the nearest knowledge-base neighbour for a question embedding.
type KBMatch struct {
	Score    float64
	Source   string
	Problem  string
	Solution string
}

// RawFeedback is one user feedback submission, persisted append-only.
type RawFeedback struct {
	ID        uuid.UUID
	Question  string
	Answer    string
	Rating    *int
	Comment   string
	CreatedAt time.Time
}

// ImprovementEvent records one feedback-driven revision attempt,
// successful or not. Append-only.
type ImprovementEvent struct {
	ID                 uuid.UUID
	Question           string
	OriginalSolution   string
	FeedbackText       string
	Rating             *int
	ImprovedSolution   string
	MethodUsed         Method
	ImprovementApplied bool
	CreatedAt          time.Time
}

// LearningStats aggregates the improvement events table.
type LearningStats struct {
	TotalImprovements int64            `json:"total_improvements"`
	AverageRating     float64          `json:"average_rating"`
	LearningActive    bool             `json:"learning_active"`
	MethodsUsed       map[string]int64 `json:"methods_used"`
}

// TrainingExample is one successful revision kept in the inspection buffer.
type TrainingExample struct {
	Question string
	Original string
	Feedback string
	Improved string
}

// Config holds the decision knobs of the solver pipeline.
type Config struct {
	KBMatchThreshold   float64
	MathKeywords       []string
	BannedTopics       []string
	Enhanced           bool
	TrainingBufferSize int
	Model              string
	EmbeddingModel     string
	Temperature        float32
	MaxTokens          int
}

// AskRequest is the incoming question payload.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse is returned to the HTTP transport.
type AskResponse struct {
	Question    string              `json:"question"`
	Source      string              `json:"source"`
	Steps       []string            `json:"steps"`
	FinalAnswer string              `json:"final_answer"`
	Enhanced    bool                `json:"enhanced"`
	Method      Method              `json:"method"`
	Confidence  float64             `json:"confidence"`
	TokenUsage  *metrics.TokenUsage `json:"token_usage,omitempty"`
}

// FeedbackRequest carries a rating and/or free-text comment on a prior answer.
type FeedbackRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Rating   *int   `json:"rating,omitempty"`
	Comment  string `json:"comment,omitempty"`
}

// FeedbackResponse reports whether the feedback triggered an improvement.
type FeedbackResponse struct {
	Status             string   `json:"status"`
	Enhanced           bool     `json:"enhanced"`
	ImprovementApplied bool     `json:"improvement_applied"`
	MethodUsed         Method   `json:"method_used"`
	ImprovedSteps      []string `json:"improved_steps,omitempty"`
}

// ImproveRequest asks for a direct revision of a prior solution.
type ImproveRequest struct {
	Question         string `json:"question"`
	OriginalSolution string `json:"original_solution"`
	Feedback         string `json:"feedback"`
}

// ImproveResponse carries the revised solution.
type ImproveResponse struct {
	ImprovedSteps      []string `json:"improved_steps"`
	FinalAnswer        string   `json:"final_answer"`
	Method             Method   `json:"method"`
	ImprovementApplied bool     `json:"improvement_applied"`
}

// Status describes the runtime readiness of the solver.
type Status struct {
	Enhanced         bool `json:"enhanced_available"`
	BufferedExamples int  `json:"buffered_examples"`
}
