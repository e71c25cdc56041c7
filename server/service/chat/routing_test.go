package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParticipants(t *testing.T) {
	for _, mode := range []ModeID{ModeEco, ModeBudget, ModeBalanced, ModeDeluxe, ModeCouncil} {
		participants := DefaultParticipants(mode)
		require.NotEmpty(t, participants, mode)
		assert.LessOrEqual(t, len(participants), 4, mode)
		assert.NotContains(t, participants, "user", mode)
	}

	assert.Len(t, DefaultParticipants(ModeEco), 2)
	assert.Len(t, DefaultParticipants(ModeBalanced), 3)
	assert.Len(t, DefaultParticipants(ModeCouncil), 4)
}

func TestEscalationCandidate(t *testing.T) {
	t.Run("EcoNeverEscalates", func(t *testing.T) {
		assert.Empty(t, EscalationCandidate(ModeEco))
	})

	t.Run("OtherModesPickAStrongerTier", func(t *testing.T) {
		assert.Equal(t, "anthropic/claude-3.5-sonnet", EscalationCandidate(ModeBudget))
		assert.Equal(t, "openai/gpt-4o", EscalationCandidate(ModeBalanced))
		assert.Equal(t, "openai/gpt-4.1", EscalationCandidate(ModeDeluxe))
		assert.Equal(t, "openai/gpt-4.1", EscalationCandidate(ModeCouncil))
	})
}

func TestShortModelID(t *testing.T) {
	assert.Equal(t, "grok-4", ShortModelID("x-ai/grok-4"))
	assert.Equal(t, "gpt-4o", ShortModelID("gpt-4o"))
	assert.Equal(t, "model", ShortModelID(""))
}
