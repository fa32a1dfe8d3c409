package solver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yanqian/math-agent/internal/infra/llm/chatgpt"
)

const serviceUnavailableMessage = "Service temporarily unavailable. Please try again later."

const professorSystemPrompt = "You are a patient mathematics professor who explains every step clearly."

// generationStrategy is one way of turning a question plus context into an
// answer. Strategies are tried in order and may fail.
type generationStrategy interface {
	generate(ctx context.Context, question, contextText string) (GeneratedAnswer, error)
}

// Generator runs an ordered chain of generation strategies.
type Generator struct {
	strategies []generationStrategy
	enhanced   bool
	logger     *slog.Logger
}

func newGenerator(cfg Config, client ChatClient, logger *slog.Logger) *Generator {
	var strategies []generationStrategy
	if cfg.Enhanced {
		strategies = append(strategies, &reasoningStrategy{cfg: cfg, client: client})
	}
	strategies = append(strategies, &structuredStrategy{cfg: cfg, client: client})
	return &Generator{
		strategies: strategies,
		enhanced:   cfg.Enhanced,
		logger:     logger.With("component", "solver.generator"),
	}
}

// Enhanced reports whether the chain starts with the chain-of-thought
// strategy.
func (g *Generator) Enhanced() bool {
	return g.enhanced
}

// Generate runs the strategy chain. It never fails: when every strategy
// errors, the terminal error answer is returned instead.
func (g *Generator) Generate(ctx context.Context, question, contextText string) GeneratedAnswer {
	var lastErr error
	for _, strategy := range g.strategies {
		answer, err := strategy.generate(ctx, question, contextText)
		if err != nil {
			g.logger.Warn("generation strategy failed", "error", err)
			lastErr = err
			continue
		}
		return answer
	}
	return errorAnswer("generation", lastErr)
}

func errorAnswer(stage string, err error) GeneratedAnswer {
	step := fmt.Sprintf("Error connecting to the AI model during %s. Please check the service configuration.", stage)
	if err != nil {
		step = fmt.Sprintf("All %s strategies failed: %v", stage, err)
	}
	return GeneratedAnswer{
		Steps:       []string{step},
		FinalAnswer: serviceUnavailableMessage,
		Method:      MethodError,
		Confidence:  0,
	}
}

// reasoningStrategy asks for a free-form chain-of-thought solution and
// parses it with the step parser.
type reasoningStrategy struct {
	cfg    Config
	client ChatClient
}

func (s *reasoningStrategy) generate(ctx context.Context, question, contextText string) (GeneratedAnswer, error) {
	prompt := fmt.Sprintf(
		"Reason through the problem below and present the solution as numbered steps, ending with the final answer.\n\nQuestion: %s\n\nContext (if any): %s",
		question, contextText,
	)
	text, err := completeText(ctx, s.client, s.cfg, professorSystemPrompt, prompt)
	if err != nil {
		return GeneratedAnswer{}, err
	}
	return GeneratedAnswer{
		Steps:       parseSolutionSteps(text),
		FinalAnswer: extractFinalAnswer(text),
		Method:      MethodPrimary,
		Confidence:  0.8,
	}, nil
}

// structuredStrategy requests a strict two-field JSON payload. A malformed
// payload degrades to treating the whole text as one step, not to an error.
type structuredStrategy struct {
	cfg    Config
	client ChatClient
}

func (s *structuredStrategy) generate(ctx context.Context, question, contextText string) (GeneratedAnswer, error) {
	prompt := fmt.Sprintf(
		"Provide a step-by-step solution to the question below.\nReturn a JSON object with two keys: \"steps\" (a list of numbered steps, concise) and \"final_answer\" (short).\nDo NOT add any commentary outside the JSON.\n\nQuestion: %s\n\nContext (if any): %s",
		question, contextText,
	)
	text, err := completeText(ctx, s.client, s.cfg, professorSystemPrompt, prompt)
	if err != nil {
		return GeneratedAnswer{}, err
	}

	steps, final, parseErr := decodeSolutionPayload(text)
	if parseErr != nil {
		return GeneratedAnswer{
			Steps:       []string{text},
			FinalAnswer: text,
			Method:      MethodFallback,
			Confidence:  0.4,
		}, nil
	}
	return GeneratedAnswer{
		Steps:       steps,
		FinalAnswer: final,
		Method:      MethodFallback,
		Confidence:  0.6,
	}, nil
}

// completeText performs one completion call and returns the trimmed content.
func completeText(ctx context.Context, client ChatClient, cfg Config, system, user string) (string, error) {
	resp, err := client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Messages: []chatgpt.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("completion response empty")
	}
	return text, nil
}

// decodeSolutionPayload parses the {"steps": [...], "final_answer": "..."}
// shape, tolerating code fences and loosely typed steps.
func decodeSolutionPayload(raw string) ([]string, string, error) {
	sanitized := strings.TrimSpace(raw)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimSuffix(sanitized, "```")
	sanitized = strings.Trim(sanitized, "`")
	sanitized = strings.TrimSpace(strings.TrimPrefix(sanitized, "json"))

	var payload struct {
		Steps       any    `json:"steps"`
		FinalAnswer string `json:"final_answer"`
	}
	if err := json.Unmarshal([]byte(sanitized), &payload); err != nil {
		return nil, "", err
	}

	var steps []string
	switch typed := payload.Steps.(type) {
	case []any:
		for _, item := range typed {
			if clean := strings.TrimSpace(fmt.Sprint(item)); clean != "" {
				steps = append(steps, clean)
			}
		}
	case string:
		if clean := strings.TrimSpace(typed); clean != "" {
			steps = append(steps, clean)
		}
	case nil:
	default:
		steps = append(steps, strings.TrimSpace(fmt.Sprint(typed)))
	}
	if len(steps) == 0 {
		return nil, "", errors.New("payload contains no steps")
	}
	return steps, strings.TrimSpace(payload.FinalAnswer), nil
}
