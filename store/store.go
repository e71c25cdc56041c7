// Package store provides thread persistence behind a Driver interface.
package store

import (
	"context"
)

// MaxParticipants caps a thread's participant set.
const MaxParticipants = 4

// Message is one entry in a thread's append-only message log. Messages are
// immutable once created; confidence is set once at creation time.
type Message struct {
	ID        string `json:"id"`
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
	CreatedTs int64  `json:"ts"` // unix milliseconds
	// Confidence is the advisory heuristic score in [0,1], absent for user
	// messages and error placeholders.
	Confidence *float64 `json:"confidence,omitempty"`
}

// Doc is a reference document attached to a thread.
type Doc struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Text      string `json:"text"`
	CreatedTs int64  `json:"ts"`
	Enabled   bool   `json:"enabled"`
}

// Thread is a conversation: an ordered message log plus the participant set.
type Thread struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Participants []string  `json:"participants"`
	Messages     []Message `json:"messages"`
	Docs         []Doc     `json:"docs"`
}

// Config configures the store facade.
type Config struct {
	// DefaultParticipants seed newly created threads.
	DefaultParticipants []string
	// DefaultTitle names newly created threads.
	DefaultTitle string
}

// Store provides access to threads over a pluggable driver.
type Store struct {
	driver Driver
	config Config
}

// New creates a new instance of Store.
func New(driver Driver, config Config) *Store {
	if config.DefaultTitle == "" {
		config.DefaultTitle = "New Thread"
	}
	return &Store{
		driver: driver,
		config: config,
	}
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// GetThread returns the thread with the given id, creating it with default
// participants when it does not exist yet.
func (s *Store) GetThread(ctx context.Context, id string) (*Thread, error) {
	thread, err := s.driver.GetThread(ctx, id)
	if err != nil {
		return nil, err
	}
	if thread != nil {
		return thread, nil
	}

	thread = &Thread{
		ID:           id,
		Title:        s.config.DefaultTitle,
		Participants: NormalizeParticipants(s.config.DefaultParticipants),
	}
	if err := s.driver.CreateThread(ctx, thread); err != nil {
		return nil, err
	}
	return thread, nil
}

// AppendMessage appends a message to a thread's log.
func (s *Store) AppendMessage(ctx context.Context, threadID string, msg Message) error {
	if _, err := s.GetThread(ctx, threadID); err != nil {
		return err
	}
	return s.driver.AppendMessage(ctx, threadID, msg)
}

// GetParticipants returns the thread's current participant set.
func (s *Store) GetParticipants(ctx context.Context, threadID string) ([]string, error) {
	thread, err := s.GetThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	return thread.Participants, nil
}

// SetParticipants replaces the thread's participant set wholesale. The list
// is deduplicated, "user" is excluded and the size capped at MaxParticipants.
func (s *Store) SetParticipants(ctx context.Context, threadID string, participants []string) error {
	if _, err := s.GetThread(ctx, threadID); err != nil {
		return err
	}
	return s.driver.SetParticipants(ctx, threadID, NormalizeParticipants(participants))
}

// AddDoc attaches a document to a thread.
func (s *Store) AddDoc(ctx context.Context, threadID string, doc Doc) error {
	if _, err := s.GetThread(ctx, threadID); err != nil {
		return err
	}
	return s.driver.AddDoc(ctx, threadID, doc)
}

// ListDocs lists a thread's documents.
func (s *Store) ListDocs(ctx context.Context, threadID string) ([]Doc, error) {
	thread, err := s.GetThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	return thread.Docs, nil
}

// SetDocEnabled toggles a document's enabled flag.
func (s *Store) SetDocEnabled(ctx context.Context, threadID, docID string, enabled bool) error {
	return s.driver.SetDocEnabled(ctx, threadID, docID, enabled)
}

// ClearDocs removes all documents from a thread.
func (s *Store) ClearDocs(ctx context.Context, threadID string) error {
	return s.driver.ClearDocs(ctx, threadID)
}

// NormalizeParticipants deduplicates the list preserving order, drops empty
// entries and the literal "user", and caps the result at MaxParticipants.
func NormalizeParticipants(participants []string) []string {
	seen := make(map[string]struct{}, len(participants))
	out := make([]string, 0, len(participants))
	for _, p := range participants {
		if p == "" || p == "user" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
		if len(out) == MaxParticipants {
			break
		}
	}
	return out
}
