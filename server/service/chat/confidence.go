package chat

import (
	"regexp"
	"strings"
)

// Scorer is the confidence scoring strategy. Scores are an advisory signal
// feeding the escalation decision, never a correctness measure.
type Scorer interface {
	// Score returns a deterministic score in [0,1] for the given text.
	Score(text string) float64
}

var bulletLineRe = regexp.MustCompile(`\n[-*•]`)

// HeuristicScorer scores text by length and surface structure: longer,
// bulleted, code-bearing responses score higher.
type HeuristicScorer struct {
	// LengthDivisor scales the length term: len/LengthDivisor*LengthWeight.
	// The term itself is uncapped; only the total score is clamped to 1.
	LengthDivisor float64
	// LengthWeight weights the length term.
	LengthWeight float64
	// BulletBonus is added per detected bulleted line, up to BulletCap.
	BulletBonus float64
	BulletCap   float64
	// CodeBonus is added once when the text contains a fenced code block.
	CodeBonus float64
}

// DefaultHeuristicScorer returns the stock scoring constants.
func DefaultHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{
		LengthDivisor: 600,
		LengthWeight:  0.7,
		BulletBonus:   0.05,
		BulletCap:     0.3,
		CodeBonus:     0.05,
	}
}

func (s *HeuristicScorer) Score(text string) float64 {
	length := float64(len(text))
	bullets := float64(len(bulletLineRe.FindAllString(text, -1)))

	score := length / s.LengthDivisor * s.LengthWeight
	score += min(s.BulletCap, bullets*s.BulletBonus)
	if strings.Contains(text, "```") {
		score += s.CodeBonus
	}
	return min(1, score)
}

var _ Scorer = (*HeuristicScorer)(nil)
