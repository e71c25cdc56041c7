package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicScorer(t *testing.T) {
	scorer := DefaultHeuristicScorer()

	t.Run("EmptyScoresZero", func(t *testing.T) {
		assert.Equal(t, 0.0, scorer.Score(""))
	})

	t.Run("BoundedInUnitInterval", func(t *testing.T) {
		for _, text := range []string{
			"",
			"short",
			strings.Repeat("x", 10000),
			strings.Repeat("\n- bullet", 50) + "```code```",
		} {
			score := scorer.Score(text)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	})

	t.Run("MonotonicInLengthUpToCap", func(t *testing.T) {
		prev := -1.0
		for n := 0; n <= 600; n += 50 {
			score := scorer.Score(strings.Repeat("a", n))
			assert.GreaterOrEqual(t, score, prev)
			prev = score
		}
		assert.Equal(t, scorer.Score(strings.Repeat("a", 600)), 0.7)
	})

	t.Run("LengthTermUncappedBeyondDivisor", func(t *testing.T) {
		// Only the total is clamped, so bulletless text keeps gaining score
		// past the divisor.
		assert.InDelta(t, 0.875, scorer.Score(strings.Repeat("a", 750)), 1e-9)
		assert.Equal(t, 1.0, scorer.Score(strings.Repeat("a", 2000)))
	})

	t.Run("BulletBonusCapped", func(t *testing.T) {
		few := scorer.Score("\n- a\n- b")
		many := scorer.Score(strings.Repeat("\n- x", 20))
		assert.Greater(t, many, few)
		// 20 bullets would be 1.0 uncapped; the cap holds it at 0.3 plus the
		// length contribution.
		assert.InDelta(t, 0.3+float64(len(strings.Repeat("\n- x", 20)))/600*0.7, many, 1e-9)
	})

	t.Run("CodeFenceBonus", func(t *testing.T) {
		plain := scorer.Score(strings.Repeat("a", 27))
		fenced := scorer.Score("```" + strings.Repeat("a", 21) + "```")
		assert.InDelta(t, 0.05, fenced-plain, 1e-9)
	})

	t.Run("Deterministic", func(t *testing.T) {
		text := "- one\n- two\n```x```"
		assert.Equal(t, scorer.Score(text), scorer.Score(text))
	})
}
