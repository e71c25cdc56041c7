package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveMode(t *testing.T) {
	t.Run("AllModesWellFormed", func(t *testing.T) {
		for _, mode := range []string{"eco", "budget", "balanced", "deluxe", "council"} {
			cfg := ResolveMode(mode)
			assert.Equal(t, ModeID(mode), cfg.ID)
			assert.GreaterOrEqual(t, cfg.Temperature, float32(0))
			assert.LessOrEqual(t, cfg.Temperature, float32(1))
			assert.Greater(t, cfg.MaxTokens, 0)
			assert.Greater(t, cfg.CacheTTL.Milliseconds(), int64(0))
		}
	})

	t.Run("UnknownFallsBackToBalanced", func(t *testing.T) {
		assert.Equal(t, ResolveMode("balanced"), ResolveMode("turbo"))
		assert.Equal(t, ResolveMode("balanced"), ResolveMode(""))
	})

	t.Run("EscalationPolicy", func(t *testing.T) {
		assert.False(t, ResolveMode("eco").EscalationEligible)
		assert.True(t, ResolveMode("budget").EscalationEligible)
		assert.True(t, ResolveMode("balanced").EscalationEligible)
		assert.False(t, ResolveMode("deluxe").EscalationEligible)
		assert.False(t, ResolveMode("council").EscalationEligible)
		assert.Equal(t, 0.35, ResolveMode("balanced").EscalationThreshold)
	})

	t.Run("DebatePolicy", func(t *testing.T) {
		for _, mode := range []string{"eco", "budget", "balanced", "deluxe"} {
			assert.False(t, ResolveMode(mode).DebateEligible, mode)
		}
		assert.True(t, ResolveMode("council").DebateEligible)
	})

	t.Run("TTLDecreasesWithCost", func(t *testing.T) {
		assert.GreaterOrEqual(t, ResolveMode("eco").CacheTTL, ResolveMode("balanced").CacheTTL)
		assert.Greater(t, ResolveMode("balanced").CacheTTL, ResolveMode("deluxe").CacheTTL)
		assert.Equal(t, ResolveMode("balanced").CacheTTL, ResolveMode("council").CacheTTL)
	})
}
