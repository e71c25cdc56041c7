// Package memory provides an in-memory store driver for development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/hrygo/thinktank/store"
)

// DB is an in-memory store.Driver. State is lost on restart.
type DB struct {
	mu      sync.RWMutex
	threads map[string]*store.Thread
}

// NewDB creates a new in-memory driver.
func NewDB() *DB {
	return &DB{
		threads: make(map[string]*store.Thread),
	}
}

func (d *DB) Close() error {
	return nil
}

func (d *DB) GetThread(_ context.Context, id string) (*store.Thread, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	thread, ok := d.threads[id]
	if !ok {
		return nil, nil
	}
	return copyThread(thread), nil
}

func (d *DB) CreateThread(_ context.Context, thread *store.Thread) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.threads[thread.ID]; ok {
		return errors.Errorf("thread %s already exists", thread.ID)
	}
	d.threads[thread.ID] = copyThread(thread)
	return nil
}

func (d *DB) SetParticipants(_ context.Context, threadID string, participants []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	thread, ok := d.threads[threadID]
	if !ok {
		return errors.Errorf("thread %s not found", threadID)
	}
	thread.Participants = append([]string(nil), participants...)
	return nil
}

func (d *DB) AppendMessage(_ context.Context, threadID string, msg store.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	thread, ok := d.threads[threadID]
	if !ok {
		return errors.Errorf("thread %s not found", threadID)
	}
	thread.Messages = append(thread.Messages, msg)
	return nil
}

func (d *DB) AddDoc(_ context.Context, threadID string, doc store.Doc) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	thread, ok := d.threads[threadID]
	if !ok {
		return errors.Errorf("thread %s not found", threadID)
	}
	thread.Docs = append(thread.Docs, doc)
	return nil
}

func (d *DB) SetDocEnabled(_ context.Context, threadID, docID string, enabled bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	thread, ok := d.threads[threadID]
	if !ok {
		return errors.Errorf("thread %s not found", threadID)
	}
	for i := range thread.Docs {
		if thread.Docs[i].ID == docID {
			thread.Docs[i].Enabled = enabled
			return nil
		}
	}
	return errors.Errorf("doc %s not found in thread %s", docID, threadID)
}

func (d *DB) ClearDocs(_ context.Context, threadID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	thread, ok := d.threads[threadID]
	if !ok {
		return errors.Errorf("thread %s not found", threadID)
	}
	thread.Docs = nil
	return nil
}

// copyThread deep-copies a thread so callers never alias internal state.
func copyThread(t *store.Thread) *store.Thread {
	out := &store.Thread{
		ID:           t.ID,
		Title:        t.Title,
		Participants: append([]string(nil), t.Participants...),
		Messages:     append([]store.Message(nil), t.Messages...),
		Docs:         append([]store.Doc(nil), t.Docs...),
	}
	return out
}

var _ store.Driver = (*DB)(nil)
