package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/thinktank/store"
)

func TestDriver(t *testing.T) {
	ctx := context.Background()
	d := NewDB()

	t.Run("GetMissingThreadReturnsNil", func(t *testing.T) {
		thread, err := d.GetThread(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, thread)
	})

	t.Run("CreateAndGet", func(t *testing.T) {
		require.NoError(t, d.CreateThread(ctx, &store.Thread{ID: "t1", Title: "New Thread"}))

		thread, err := d.GetThread(ctx, "t1")
		require.NoError(t, err)
		require.NotNil(t, thread)
		assert.Equal(t, "New Thread", thread.Title)
	})

	t.Run("DuplicateCreateFails", func(t *testing.T) {
		assert.Error(t, d.CreateThread(ctx, &store.Thread{ID: "t1"}))
	})

	t.Run("AppendPreservesOrder", func(t *testing.T) {
		require.NoError(t, d.AppendMessage(ctx, "t1", store.Message{ID: "m1", Speaker: "user", Text: "hi"}))
		require.NoError(t, d.AppendMessage(ctx, "t1", store.Message{ID: "m2", Speaker: "gpt-4o", Text: "hello"}))

		thread, err := d.GetThread(ctx, "t1")
		require.NoError(t, err)
		require.Len(t, thread.Messages, 2)
		assert.Equal(t, "m1", thread.Messages[0].ID)
		assert.Equal(t, "m2", thread.Messages[1].ID)
	})

	t.Run("ReadsDoNotAliasInternalState", func(t *testing.T) {
		thread, err := d.GetThread(ctx, "t1")
		require.NoError(t, err)
		thread.Messages[0].Text = "mutated"

		again, err := d.GetThread(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, "hi", again.Messages[0].Text)
	})

	t.Run("Docs", func(t *testing.T) {
		require.NoError(t, d.AddDoc(ctx, "t1", store.Doc{ID: "d1", Name: "notes.md", Text: "alpha", Enabled: true}))
		require.NoError(t, d.SetDocEnabled(ctx, "t1", "d1", false))

		thread, err := d.GetThread(ctx, "t1")
		require.NoError(t, err)
		require.Len(t, thread.Docs, 1)
		assert.False(t, thread.Docs[0].Enabled)

		require.NoError(t, d.ClearDocs(ctx, "t1"))
		thread, err = d.GetThread(ctx, "t1")
		require.NoError(t, err)
		assert.Empty(t, thread.Docs)
	})
}

func TestStoreFacade(t *testing.T) {
	ctx := context.Background()
	s := store.New(NewDB(), store.Config{
		DefaultParticipants: []string{"x-ai/grok-4", "anthropic/claude-3.5-sonnet", "openai/gpt-4o-mini"},
	})

	t.Run("GetOrCreateSeedsDefaults", func(t *testing.T) {
		thread, err := s.GetThread(ctx, "fresh")
		require.NoError(t, err)
		assert.Equal(t, []string{"x-ai/grok-4", "anthropic/claude-3.5-sonnet", "openai/gpt-4o-mini"}, thread.Participants)
	})

	t.Run("SetParticipantsNormalizes", func(t *testing.T) {
		err := s.SetParticipants(ctx, "fresh", []string{"a", "user", "a", "b", "", "c", "d", "e"})
		require.NoError(t, err)

		got, err := s.GetParticipants(ctx, "fresh")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c", "d"}, got)
	})
}

func TestNormalizeParticipants(t *testing.T) {
	assert.Empty(t, store.NormalizeParticipants([]string{"user", ""}))
	assert.Equal(t, []string{"a"}, store.NormalizeParticipants([]string{"a", "a"}))
	assert.Len(t, store.NormalizeParticipants([]string{"a", "b", "c", "d", "e"}), store.MaxParticipants)
}
