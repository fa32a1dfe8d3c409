package solver

import "strings"

const answerNotStated = "Answer not clearly stated"

// stepCues mark lines that begin a new solution step.
var stepCues = []string{"step", "first", "next", "then", "finally"}

// answerCues mark the line carrying the final answer.
var answerCues = []string{"final answer", "answer:", "result:", "therefore"}

// parseSolutionSteps splits free-form solution text into discrete steps.
// A line containing a sequencing cue starts a new step; other lines are
// appended to the current one. Text without cues becomes a single step.
func parseSolutionSteps(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	var (
		steps   []string
		current string
	)
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if containsAny(line, stepCues) {
			if current != "" {
				steps = append(steps, current)
			}
			current = line
		} else if current == "" {
			current = line
		} else {
			current += " " + line
		}
	}
	if current != "" {
		steps = append(steps, current)
	}
	if len(steps) == 0 {
		return []string{trimmed}
	}
	return steps
}

// extractFinalAnswer returns the first line flagged by an answer cue, the
// last non-blank line otherwise, or a fixed placeholder for blank input.
func extractFinalAnswer(text string) string {
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		if containsAny(line, answerCues) {
			return strings.TrimSpace(line)
		}
	}
	for i := len(lines) - 1; i >= 0; i-- {
		if clean := strings.TrimSpace(lines[i]); clean != "" {
			return clean
		}
	}
	return answerNotStated
}

func containsAny(line string, cues []string) bool {
	low := strings.ToLower(line)
	for _, cue := range cues {
		if strings.Contains(low, cue) {
			return true
		}
	}
	return false
}
