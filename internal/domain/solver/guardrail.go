package solver

import (
	"strings"
	"unicode"
)

// DefaultMathKeywords is the domain vocabulary accepted by the input guardrail.
var DefaultMathKeywords = []string{
	"solve", "integrate", "differentiate", "derivative", "limit", "roots",
	"equation", "matrix", "theorem", "prove", "evaluate", "simplify",
	"laplace", "fourier", "sum", "product", "geometry", "trigonometry",
	"probability", "stats", "statistical", "integral", "factorize",
}

// DefaultBannedTopics is the output guardrail deny list.
var DefaultBannedTopics = []string{
	"joke", "love letter", "sex", "romance", "politics",
}

const (
	unanswerableMessage = "This question could not be answered from the knowledge base or web search."
	offTopicMessage     = "This system only returns mathematics-related educational answers."
)

// Guardrail admits or rejects questions and sanitizes outgoing text.
type Guardrail struct {
	keywords []string
	banned   []string
}

// NewGuardrail builds a guardrail, falling back to the default word lists.
func NewGuardrail(keywords, banned []string) *Guardrail {
	if len(keywords) == 0 {
		keywords = DefaultMathKeywords
	}
	if len(banned) == 0 {
		banned = DefaultBannedTopics
	}
	return &Guardrail{keywords: lowered(keywords), banned: lowered(banned)}
}

// Admit reports whether a question looks mathematical: it must contain a
// digit or at least one vocabulary keyword.
func (g *Guardrail) Admit(question string) bool {
	q := strings.ToLower(question)
	for _, r := range q {
		if unicode.IsDigit(r) {
			return true
		}
	}
	for _, kw := range g.keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// Sanitize replaces empty output with a fixed unanswerable message and
// off-topic output with a fixed refusal. Idempotent.
func (g *Guardrail) Sanitize(text string) string {
	if strings.TrimSpace(text) == "" {
		return unanswerableMessage
	}
	low := strings.ToLower(text)
	for _, topic := range g.banned {
		if strings.Contains(low, topic) {
			return offTopicMessage
		}
	}
	return text
}

func lowered(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if clean := strings.ToLower(strings.TrimSpace(item)); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}
