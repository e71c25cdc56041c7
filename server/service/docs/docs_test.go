package docs

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/thinktank/store"
	"github.com/hrygo/thinktank/store/memory"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	s := store.New(memory.NewDB(), store.Config{})
	return NewService(s, nil), s
}

func TestChunkText(t *testing.T) {
	t.Run("ShortTextIsOneChunk", func(t *testing.T) {
		chunks := chunkText("short", ChunkSize, ChunkOverlap)
		assert.Equal(t, []string{"short"}, chunks)
	})

	t.Run("LongTextOverlaps", func(t *testing.T) {
		text := strings.Repeat("x", 1700)
		chunks := chunkText(text, ChunkSize, ChunkOverlap)
		require.Len(t, chunks, 3)
		assert.Len(t, chunks[0], 800)
		assert.Len(t, chunks[1], 800)
		assert.Len(t, chunks[2], 300)
		// Adjacent chunks share the trailing overlap.
		assert.Equal(t, chunks[0][700:], chunks[1][:100])
	})

	t.Run("EmptyText", func(t *testing.T) {
		assert.Empty(t, chunkText("", ChunkSize, ChunkOverlap))
	})
}

func TestTokenizeToSet(t *testing.T) {
	terms := tokenizeToSet("The Quick-Brown fox, v2 jumps!")
	assert.Contains(t, terms, "the")
	assert.Contains(t, terms, "quick")
	assert.Contains(t, terms, "brown")
	assert.Contains(t, terms, "jumps")
	assert.Contains(t, terms, "fox")
	// Short terms are dropped.
	assert.NotContains(t, terms, "v2")
}

func TestExcerpt(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyWithoutDocs", func(t *testing.T) {
		svc, _ := newTestService(t)
		text, err := svc.Excerpt(ctx, "t1", 2000, "anything")
		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("EmptyWhenAllDisabled", func(t *testing.T) {
		svc, s := newTestService(t)
		doc, err := svc.Ingest(ctx, "t1", "notes.txt", []byte("some notes"))
		require.NoError(t, err)
		require.NoError(t, s.SetDocEnabled(ctx, "t1", doc.ID, false))

		text, err := svc.Excerpt(ctx, "t1", 2000, "notes")
		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("SectionFormat", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Ingest(ctx, "t1", "guide.txt", []byte("deployment instructions for the cluster"))
		require.NoError(t, err)

		text, err := svc.Excerpt(ctx, "t1", 2000, "")
		require.NoError(t, err)
		assert.Equal(t, "# guide.txt\ndeployment instructions for the cluster", text)
	})

	t.Run("QueryRanksMatchingChunksFirst", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Ingest(ctx, "t1", "a.txt", []byte("nothing relevant here at all"))
		require.NoError(t, err)
		_, err = svc.Ingest(ctx, "t1", "b.txt", []byte("kubernetes deployment rollout strategy details"))
		require.NoError(t, err)

		text, err := svc.Excerpt(ctx, "t1", 2000, "kubernetes rollout")
		require.NoError(t, err)
		require.NotEmpty(t, text)
		sections := strings.Split(text, "\n\n---\n\n")
		assert.True(t, strings.HasPrefix(sections[0], "# b.txt\n"))
	})

	t.Run("NonMatchingChunksDroppedUnderQuery", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Ingest(ctx, "t1", "a.txt", []byte("completely unrelated content"))
		require.NoError(t, err)

		text, err := svc.Excerpt(ctx, "t1", 2000, "kubernetes rollout")
		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("RespectsBudgetAndSectionCap", func(t *testing.T) {
		svc, _ := newTestService(t)
		// 8 chunks' worth of text: only MaxSections sections may survive.
		_, err := svc.Ingest(ctx, "t1", "big.txt", []byte(strings.Repeat("filler text ", 500)))
		require.NoError(t, err)

		text, err := svc.Excerpt(ctx, "t1", 100000, "")
		require.NoError(t, err)
		sections := strings.Split(text, "\n\n---\n\n")
		assert.LessOrEqual(t, len(sections), MaxSections)

		short, err := svc.Excerpt(ctx, "t1", 900, "")
		require.NoError(t, err)
		assert.LessOrEqual(t, len(short), 900)
	})
}

func TestIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("PlainTextStoredVerbatim", func(t *testing.T) {
		svc, s := newTestService(t)
		doc, err := svc.Ingest(ctx, "t1", "raw.txt", []byte("line one\nline two"))
		require.NoError(t, err)
		assert.True(t, doc.Enabled)

		docs, err := s.ListDocs(ctx, "t1")
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "line one\nline two", docs[0].Text)
	})

	t.Run("MarkdownFlattened", func(t *testing.T) {
		svc, _ := newTestService(t)
		md := "# Title\n\nSome *emphasis* and a [link](https://example.com).\n"
		doc, err := svc.Ingest(ctx, "t1", "readme.md", []byte(md))
		require.NoError(t, err)

		assert.NotContains(t, doc.Text, "#")
		assert.NotContains(t, doc.Text, "*")
		assert.NotContains(t, doc.Text, "](")
		assert.Contains(t, doc.Text, "Title")
		assert.Contains(t, doc.Text, "emphasis")
		assert.Contains(t, doc.Text, "link")
	})

	t.Run("PDFRejected", func(t *testing.T) {
		svc, s := newTestService(t)
		_, err := svc.Ingest(ctx, "t1", "report.PDF", []byte("%PDF-1.4"))
		require.ErrorIs(t, err, ErrPDFUnsupported)

		docs, err := s.ListDocs(ctx, "t1")
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("DefaultName", func(t *testing.T) {
		svc, _ := newTestService(t)
		doc, err := svc.Ingest(ctx, "t1", "", []byte("x"))
		require.NoError(t, err)
		assert.Equal(t, "document.txt", doc.Name)
	})
}
