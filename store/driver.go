package store

import (
	"context"
)

// Driver is an interface for store driver.
// It contains all methods that a thread store driver should implement.
type Driver interface {
	Close() error

	// Thread model related methods. GetThread returns (nil, nil) when the
	// thread does not exist.
	GetThread(ctx context.Context, id string) (*Thread, error)
	CreateThread(ctx context.Context, thread *Thread) error
	SetParticipants(ctx context.Context, threadID string, participants []string) error

	// Message model related methods. The message log is append-only.
	AppendMessage(ctx context.Context, threadID string, msg Message) error

	// Document model related methods.
	AddDoc(ctx context.Context, threadID string, doc Doc) error
	SetDocEnabled(ctx context.Context, threadID, docID string, enabled bool) error
	ClearDocs(ctx context.Context, threadID string) error
}
