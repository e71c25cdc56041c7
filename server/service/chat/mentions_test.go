package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterByMentions(t *testing.T) {
	participants := []string{"x-ai/grok-4", "openai/gpt-4o", "anthropic/claude-3.5-sonnet"}

	t.Run("NoMentionsReturnsUnchanged", func(t *testing.T) {
		assert.Equal(t, participants, FilterByMentions("", participants))
		assert.Equal(t, participants, FilterByMentions("what do you all think?", participants))
	})

	t.Run("AtTokenNarrows", func(t *testing.T) {
		got := FilterByMentions("hey @grok-4 thoughts?", []string{"x-ai/grok-4", "openai/gpt-4o"})
		assert.Equal(t, []string{"x-ai/grok-4"}, got)
	})

	t.Run("AliasNarrows", func(t *testing.T) {
		got := FilterByMentions("claude, what would you add?", participants)
		assert.Equal(t, []string{"anthropic/claude-3.5-sonnet"}, got)
	})

	t.Run("AliasGroupMatchesSiblings", func(t *testing.T) {
		// "sonnet" belongs to the claude alias group.
		got := FilterByMentions("sonnet please", participants)
		assert.Equal(t, []string{"anthropic/claude-3.5-sonnet"}, got)
	})

	t.Run("UnmatchedMentionFallsBackToAll", func(t *testing.T) {
		got := FilterByMentions("@nonexistent-model hi", participants)
		assert.Equal(t, participants, got)
	})

	t.Run("MultipleMentions", func(t *testing.T) {
		got := FilterByMentions("@grok-4 and @gpt-4o, weigh in", participants)
		assert.ElementsMatch(t, []string{"x-ai/grok-4", "openai/gpt-4o"}, got)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		got := FilterByMentions("Claude?", participants)
		assert.Equal(t, []string{"anthropic/claude-3.5-sonnet"}, got)
	})
}

func TestExtractAtTokens(t *testing.T) {
	assert.Equal(t, []string{"grok-4", "gpt-4o"}, extractAtTokens("@grok-4 @GPT-4o hi"))
	assert.Empty(t, extractAtTokens("no mentions here"))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"hey", "grok-4", "what", "s", "up"}, tokenize("Hey @grok-4, what's up?"))
}
