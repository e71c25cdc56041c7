// Package chat implements the reply coordination engine: mode and routing
// policy, mention narrowing, confidence scoring and the per-turn fan-out /
// escalation / debate state machine.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/thinktank/internal/observability"
	"github.com/hrygo/thinktank/plugin/cache"
	"github.com/hrygo/thinktank/plugin/llm"
	"github.com/hrygo/thinktank/store"
)

const genericSystemPrompt = "You are an AI participant in a multi-agent group chat. " +
	"Be concise (max 5 lines), additive, and practical. If you disagree, add a short counterpoint."

const debateSystemPrompt = "You are participating in a short round-table debate. " +
	"Provide a succinct (<= 4 lines) reaction that adds a new angle, clarifies a trade-off, " +
	"or corrects a mistake. Be respectful and concrete."

const (
	// DebateModel is the fixed model used for debate reactions. A stable,
	// widely available model keeps the round cheap and predictable.
	DebateModel = "openai/gpt-4o-mini"
	// DebateMaxTokens is the fixed low token budget for debate reactions.
	DebateMaxTokens = 120
)

// ErrTextRequired rejects a turn with no user text before any generation.
var ErrTextRequired = errors.New("text is required")

// DocProvider returns relevance-ranked reference text for a thread, at most
// maxChars long, or "" when the thread has no enabled documents.
type DocProvider interface {
	Excerpt(ctx context.Context, threadID string, maxChars int, query string) (string, error)
}

// Config configures the coordinator.
type Config struct {
	// CallTimeout bounds each individual gateway call (default: 60s). A
	// timed-out call degrades to an error placeholder like any other failure.
	CallTimeout time.Duration
	// DocBudget is the character budget for reference excerpts (default: 2000).
	DocBudget int
}

// Turn is one user submission.
type Turn struct {
	ThreadID string
	Text     string
	// Participants, when non-nil, replaces the thread's participant set for
	// this and subsequent turns.
	Participants []string
	Mode         string
	// Debate disables the council debate round when set to false; nil means
	// enabled.
	Debate *bool
}

func (t *Turn) debateEnabled() bool {
	return t.Debate == nil || *t.Debate
}

// EventType tags a streaming event.
type EventType string

const (
	EventReply  EventType = "reply"
	EventDebate EventType = "debate"
	EventDone   EventType = "done"
)

// Event is one streaming delivery unit.
type Event struct {
	Type    EventType       `json:"type"`
	Reply   *store.Message  `json:"reply,omitempty"`
	Replies []store.Message `json:"replies,omitempty"`
}

// Coordinator orchestrates one round of concurrent per-model generation,
// applies the confidence-based escalation decision and optionally runs a
// single debate round.
type Coordinator struct {
	store   *store.Store
	docs    DocProvider
	gateway llm.Gateway
	cache   cache.ResponseCache
	scorer  Scorer
	logger  *slog.Logger

	callTimeout time.Duration
	docBudget   int

	// Per-thread locks serialize store appends from concurrent turns on the
	// same thread. Generation itself runs unlocked.
	mu          sync.Mutex
	threadLocks map[string]*sync.Mutex
}

// NewCoordinator creates a new coordinator.
func NewCoordinator(s *store.Store, docs DocProvider, gateway llm.Gateway, responseCache cache.ResponseCache, scorer Scorer, logger *slog.Logger, cfg Config) *Coordinator {
	if scorer == nil {
		scorer = DefaultHeuristicScorer()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 60 * time.Second
	}
	if cfg.DocBudget <= 0 {
		cfg.DocBudget = 2000
	}
	return &Coordinator{
		store:       s,
		docs:        docs,
		gateway:     gateway,
		cache:       responseCache,
		scorer:      scorer,
		logger:      logger,
		callTimeout: cfg.CallTimeout,
		docBudget:   cfg.DocBudget,
		threadLocks: make(map[string]*sync.Mutex),
	}
}

// Respond runs one full turn and returns the produced messages in
// deterministic order: base replies in participant selection order, the
// escalation reply (if any) appended last, then debate replies in the order
// speakers first appeared. All messages are appended to the thread's log in
// the same order.
func (c *Coordinator) Respond(ctx context.Context, turn Turn) ([]store.Message, error) {
	thread, cfg, reqCtx, err := c.beginTurn(ctx, &turn)
	if err != nil {
		return nil, err
	}

	selected := selectParticipants(turn.Text, thread.Participants, cfg.ID)
	replies := c.fanOut(ctx, thread, selected, cfg)

	if cfg.EscalationEligible {
		mean := c.meanConfidence(replies)
		if mean < cfg.EscalationThreshold {
			if candidate := EscalationCandidate(cfg.ID); candidate != "" {
				reqCtx.Info("escalating low-confidence round",
					slog.Float64("mean_confidence", mean),
					slog.String(observability.LogFieldModel, candidate))
				escalated := c.fanOut(ctx, thread, []string{candidate}, cfg)
				replies = append(replies, escalated...)
			}
		}
	}

	if cfg.DebateEligible && turn.debateEnabled() {
		replies = append(replies, c.debateRound(ctx, thread, replies, cfg)...)
	}

	lock := c.threadLock(turn.ThreadID)
	lock.Lock()
	for _, msg := range replies {
		if err := c.store.AppendMessage(ctx, turn.ThreadID, msg); err != nil {
			lock.Unlock()
			return nil, errors.Wrap(err, "failed to persist replies")
		}
	}
	lock.Unlock()

	reqCtx.Info("turn completed",
		slog.Int("replies", len(replies)),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
	return replies, nil
}

// RespondStream runs one turn emitting each reply as soon as its generation
// resolves. Event order across concurrent branches is completion order, not
// selection order; the thread's persisted log reflects the same arrival
// order. Escalation does not apply to the streaming path.
func (c *Coordinator) RespondStream(ctx context.Context, turn Turn, emit func(Event)) error {
	thread, cfg, reqCtx, err := c.beginTurn(ctx, &turn)
	if err != nil {
		return err
	}

	selected := selectParticipants(turn.Text, thread.Participants, cfg.ID)

	var emitMu sync.Mutex
	send := func(ev Event) {
		emitMu.Lock()
		defer emitMu.Unlock()
		emit(ev)
	}

	lock := c.threadLock(turn.ThreadID)
	replies := make([]store.Message, len(selected))
	var g errgroup.Group
	for i, modelID := range selected {
		i, modelID := i, modelID
		g.Go(func() error {
			msg := c.generate(ctx, thread, modelID, cfg)
			replies[i] = msg

			lock.Lock()
			err := c.store.AppendMessage(ctx, turn.ThreadID, msg)
			lock.Unlock()
			if err != nil {
				reqCtx.Error("failed to persist streamed reply", err,
					slog.String(observability.LogFieldModel, modelID))
			}
			send(Event{Type: EventReply, Reply: &msg})
			return nil
		})
	}
	_ = g.Wait()

	if cfg.DebateEligible && turn.debateEnabled() {
		debateReplies := c.debateRound(ctx, thread, replies, cfg)
		lock.Lock()
		for _, msg := range debateReplies {
			if err := c.store.AppendMessage(ctx, turn.ThreadID, msg); err != nil {
				reqCtx.Error("failed to persist debate reply", err)
			}
		}
		lock.Unlock()
		send(Event{Type: EventDebate, Replies: debateReplies})
	}

	send(Event{Type: EventDone})
	reqCtx.Info("streamed turn completed",
		slog.Int("replies", len(replies)),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
	return nil
}

// beginTurn validates the turn, applies a participant override, appends the
// user message and returns the thread state the round will generate against.
func (c *Coordinator) beginTurn(ctx context.Context, turn *Turn) (*store.Thread, ModeConfig, *observability.RequestContext, error) {
	if turn.ThreadID == "" {
		turn.ThreadID = "default"
	}
	if strings.TrimSpace(turn.Text) == "" {
		return nil, ModeConfig{}, nil, ErrTextRequired
	}

	cfg := ResolveMode(turn.Mode)
	reqCtx := observability.NewRequestContext(c.logger, turn.ThreadID, string(cfg.ID))

	if turn.Participants != nil {
		if err := c.store.SetParticipants(ctx, turn.ThreadID, turn.Participants); err != nil {
			return nil, ModeConfig{}, nil, errors.Wrap(err, "failed to set participants")
		}
	}

	userMsg := store.Message{
		ID:        uuid.NewString(),
		Speaker:   "user",
		Text:      turn.Text,
		CreatedTs: time.Now().UnixMilli(),
	}

	lock := c.threadLock(turn.ThreadID)
	lock.Lock()
	err := c.store.AppendMessage(ctx, turn.ThreadID, userMsg)
	lock.Unlock()
	if err != nil {
		return nil, ModeConfig{}, nil, errors.Wrap(err, "failed to append user message")
	}

	thread, err := c.store.GetThread(ctx, turn.ThreadID)
	if err != nil {
		return nil, ModeConfig{}, nil, errors.Wrap(err, "failed to load thread")
	}
	return thread, cfg, reqCtx, nil
}

// fanOut issues one generation request per model concurrently and returns
// the results in the models' order. A failing branch yields an error
// placeholder, never an error.
func (c *Coordinator) fanOut(ctx context.Context, thread *store.Thread, models []string, cfg ModeConfig) []store.Message {
	selected := make([]string, 0, len(models))
	for _, m := range models {
		if m != "" && m != "user" {
			selected = append(selected, m)
		}
	}

	results := make([]store.Message, len(selected))
	var g errgroup.Group
	for i, modelID := range selected {
		i, modelID := i, modelID
		g.Go(func() error {
			results[i] = c.generate(ctx, thread, modelID, cfg)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// generate produces one reply for one model: cache lookup, gateway call on
// miss, confidence scoring, placeholder on failure.
func (c *Coordinator) generate(ctx context.Context, thread *store.Thread, modelID string, cfg ModeConfig) store.Message {
	speaker := ShortModelID(modelID)
	conversation := serializeContext(thread.Messages)

	docsText := ""
	if c.docs != nil {
		text, err := c.docs.Excerpt(ctx, thread.ID, c.docBudget, lastUserText(thread.Messages))
		if err != nil {
			c.logger.Warn("doc excerpt failed, generating without reference text",
				slog.String(observability.LogFieldThreadID, thread.ID),
				slog.String("error", err.Error()))
		} else {
			docsText = text
		}
	}

	fingerprint := cache.Fingerprint(modelID, cfg.Temperature, cfg.MaxTokens, conversation, docsText)
	if cached, ok := c.cache.Get(ctx, fingerprint); ok {
		return c.newReply(speaker, cached)
	}

	var prompt strings.Builder
	prompt.WriteString("Thread so far:\n")
	prompt.WriteString(conversation)
	if docsText != "" {
		prompt.WriteString("\n\nReference docs:\n")
		prompt.WriteString(docsText)
	}
	prompt.WriteString("\n\nYour reply:")

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	text, err := c.gateway.Complete(callCtx, llm.CompletionRequest{
		Model:       modelID,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Messages: []llm.Message{
			llm.SystemPrompt(genericSystemPrompt),
			llm.UserMessage(prompt.String()),
		},
	})
	if err != nil {
		return store.Message{
			ID:        uuid.NewString(),
			Speaker:   speaker,
			Text:      fmt.Sprintf("(error from %s: %s)", speaker, errorSummary(err)),
			CreatedTs: time.Now().UnixMilli(),
		}
	}

	_ = c.cache.Set(ctx, fingerprint, text, cfg.CacheTTL)
	return c.newReply(speaker, text)
}

// debateRound issues one short reactive generation per distinct speaker,
// concurrently, against the fixed debate model. Debate replies are not
// cached: they are intentionally fresh and low-cost.
func (c *Coordinator) debateRound(ctx context.Context, thread *store.Thread, replies []store.Message, cfg ModeConfig) []store.Message {
	var lines []string
	if last := lastUserText(thread.Messages); last != "" {
		lines = append(lines, "[user] "+last)
	}
	for _, r := range replies {
		lines = append(lines, fmt.Sprintf("[%s] %s", r.Speaker, r.Text))
	}
	debateContext := strings.Join(lines, "\n")

	speakers := distinctSpeakers(replies)
	results := make([]store.Message, len(speakers))
	var g errgroup.Group
	for i, speaker := range speakers {
		i, speaker := i, speaker
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
			defer cancel()
			text, err := c.gateway.Complete(callCtx, llm.CompletionRequest{
				Model:       DebateModel,
				Temperature: cfg.Temperature,
				MaxTokens:   DebateMaxTokens,
				Messages: []llm.Message{
					llm.SystemPrompt(debateSystemPrompt),
					llm.UserMessage(fmt.Sprintf(
						"Topic and replies so far:\n%s\n\nYour short reaction as %s:",
						debateContext, speaker)),
				},
			})
			if err != nil {
				results[i] = store.Message{
					ID:        uuid.NewString(),
					Speaker:   speaker,
					Text:      fmt.Sprintf("(debate error from %s: %s)", speaker, errorSummary(err)),
					CreatedTs: time.Now().UnixMilli(),
				}
				return nil
			}
			results[i] = c.newReply(speaker, text)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (c *Coordinator) newReply(speaker, text string) store.Message {
	confidence := c.scorer.Score(text)
	return store.Message{
		ID:         uuid.NewString(),
		Speaker:    speaker,
		Text:       text,
		CreatedTs:  time.Now().UnixMilli(),
		Confidence: &confidence,
	}
}

// meanConfidence averages scores over the round's replies, placeholders
// included; an empty round scores 0.
func (c *Coordinator) meanConfidence(replies []store.Message) float64 {
	if len(replies) == 0 {
		return 0
	}
	var sum float64
	for _, r := range replies {
		sum += c.scorer.Score(r.Text)
	}
	return sum / float64(len(replies))
}

func (c *Coordinator) threadLock(threadID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.threadLocks[threadID]; ok {
		return l
	}
	l := &sync.Mutex{}
	c.threadLocks[threadID] = l
	return l
}

// selectParticipants applies mention narrowing to the thread's participant
// set and falls back to the mode's default roster when nothing remains, so a
// cleared thread still gets a full round.
func selectParticipants(text string, participants []string, mode ModeID) []string {
	if selected := FilterByMentions(text, participants); len(selected) > 0 {
		return selected
	}
	return DefaultParticipants(mode)
}

// serializeContext renders the conversation as "[speaker] text" lines in
// chronological order.
func serializeContext(messages []store.Message) string {
	lines := make([]string, len(messages))
	for i, m := range messages {
		lines[i] = fmt.Sprintf("[%s] %s", m.Speaker, m.Text)
	}
	return strings.Join(lines, "\n")
}

func lastUserText(messages []store.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Speaker == "user" {
			return messages[i].Text
		}
	}
	return ""
}

// distinctSpeakers deduplicates by user-visible speaker name, preserving
// first-appearance order.
func distinctSpeakers(replies []store.Message) []string {
	seen := make(map[string]struct{}, len(replies))
	var out []string
	for _, r := range replies {
		if _, ok := seen[r.Speaker]; ok {
			continue
		}
		seen[r.Speaker] = struct{}{}
		out = append(out, r.Speaker)
	}
	return out
}

func errorSummary(err error) string {
	var gatewayErr *llm.GatewayError
	if errors.As(err, &gatewayErr) {
		return gatewayErr.Err.Error()
	}
	return err.Error()
}
