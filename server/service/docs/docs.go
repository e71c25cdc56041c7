// Package docs attaches reference documents to threads and builds the
// relevance-ranked excerpt injected into generation prompts.
package docs

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/hrygo/thinktank/store"
)

const (
	// ChunkSize is the maximum character count per chunk.
	ChunkSize = 800
	// ChunkOverlap is the character count overlap between adjacent chunks.
	ChunkOverlap = 100
	// MaxSections caps the number of chunks included in an excerpt.
	MaxSections = 5
	// DefaultExcerptBudget bounds the excerpt length when the caller passes
	// no budget.
	DefaultExcerptBudget = 2000

	sectionSeparator = "\n\n---\n\n"
)

// ErrPDFUnsupported rejects PDF uploads; callers should extract the text
// upstream and upload that instead.
var ErrPDFUnsupported = errors.New("pdf parsing is not supported, upload extracted text instead")

// Service manages a thread's reference documents.
type Service struct {
	store  *store.Store
	logger *slog.Logger
}

// NewService creates a new document service.
func NewService(s *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: s, logger: logger}
}

// Ingest extracts plain text from an uploaded file and attaches it to the
// thread as an enabled document. Markdown files are flattened to plain text;
// anything else is stored verbatim as UTF-8.
func (s *Service) Ingest(ctx context.Context, threadID, name string, data []byte) (store.Doc, error) {
	if name == "" {
		name = "document.txt"
	}

	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".pdf") {
		return store.Doc{}, ErrPDFUnsupported
	}

	text := string(data)
	if strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown") {
		text = markdownToText(data)
	}

	doc := store.Doc{
		ID:        shortuuid.New(),
		Name:      name,
		Text:      text,
		CreatedTs: time.Now().UnixMilli(),
		Enabled:   true,
	}
	if err := s.store.AddDoc(ctx, threadID, doc); err != nil {
		return store.Doc{}, err
	}
	s.logger.Debug("document ingested",
		slog.String("thread_id", threadID),
		slog.String("name", name),
		slog.Int("chars", len(text)))
	return doc, nil
}

// List returns a thread's documents.
func (s *Service) List(ctx context.Context, threadID string) ([]store.Doc, error) {
	return s.store.ListDocs(ctx, threadID)
}

// SetEnabled toggles one document's participation in excerpts.
func (s *Service) SetEnabled(ctx context.Context, threadID, docID string, enabled bool) error {
	return s.store.SetDocEnabled(ctx, threadID, docID, enabled)
}

// Clear removes all documents from a thread.
func (s *Service) Clear(ctx context.Context, threadID string) error {
	return s.store.ClearDocs(ctx, threadID)
}

// Excerpt builds the reference text for a thread: enabled documents are
// chunked, chunks are scored by term overlap with the query (every chunk
// scores 1 when the query has no usable terms), and the best chunks are
// rendered as "# name" sections within the character budget. Returns ""
// when the thread has no enabled documents.
func (s *Service) Excerpt(ctx context.Context, threadID string, maxChars int, query string) (string, error) {
	if maxChars <= 0 {
		maxChars = DefaultExcerptBudget
	}

	all, err := s.store.ListDocs(ctx, threadID)
	if err != nil {
		return "", err
	}
	var enabled []store.Doc
	for _, d := range all {
		if d.Enabled {
			enabled = append(enabled, d)
		}
	}
	if len(enabled) == 0 {
		return "", nil
	}

	queryTerms := tokenizeToSet(query)

	type scoredChunk struct {
		name  string
		chunk string
		score int
	}
	var scored []scoredChunk
	for _, d := range enabled {
		for _, chunk := range chunkText(d.Text, ChunkSize, ChunkOverlap) {
			if len(queryTerms) == 0 {
				scored = append(scored, scoredChunk{name: d.Name, chunk: chunk, score: 1})
				continue
			}
			match := 0
			for term := range tokenizeToSet(chunk) {
				if _, ok := queryTerms[term]; ok {
					match++
				}
			}
			if match > 0 {
				scored = append(scored, scoredChunk{name: d.Name, chunk: chunk, score: match})
			}
		}
	}

	// Stable sort keeps document order for ties.
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	var selected []string
	total := 0
	for _, sc := range scored {
		section := fmt.Sprintf("# %s\n%s", sc.name, sc.chunk)
		if total+len(section) > maxChars {
			break
		}
		selected = append(selected, section)
		total += len(section) + len(sectionSeparator)
		if len(selected) >= MaxSections {
			break
		}
	}
	return strings.Join(selected, sectionSeparator), nil
}

// chunkText splits text into fixed-size chunks with a trailing overlap so
// that term matches near a boundary are not lost.
func chunkText(text string, chunkSize, overlap int) []string {
	var out []string
	i := 0
	for i < len(text) {
		end := i + chunkSize
		if end > len(text) {
			end = len(text)
		}
		out = append(out, text[i:end])
		if end == len(text) {
			break
		}
		i = end - overlap
		if i < 0 {
			i = 0
		}
	}
	return out
}

var termSplitRe = regexp.MustCompile(`[^a-z0-9]+`)

// tokenizeToSet lowercases and splits text into terms, dropping terms
// shorter than three characters.
func tokenizeToSet(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range termSplitRe.Split(strings.ToLower(text), -1) {
		if len(w) > 2 {
			out[w] = struct{}{}
		}
	}
	return out
}
