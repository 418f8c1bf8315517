package documents

import (
	"context"
	"time"

	"legalbrief-backend/internal/summarize"
)

// DocumentUpdate is a partial patch; nil fields retain their prior values.
type DocumentUpdate struct {
	OriginalText    *string
	ProcessedAt     *time.Time
	Summary         *summarize.Summary
	ProcessingError *string
}

// Repo defines persistence operations for documents.
type Repo interface {
	// Create stores the document, assigning a fresh monotonic id.
	Create(ctx context.Context, doc Document) (Document, error)
	// Get returns a document by id, or ErrNotFound.
	Get(ctx context.Context, id int64) (Document, error)
	// ListBySession returns the session's documents, newest first.
	ListBySession(ctx context.Context, sessionID string) ([]Document, error)
	// Update merges the patch into the stored document atomically.
	Update(ctx context.Context, id int64, patch DocumentUpdate) (Document, error)
	// Delete removes one document, or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error
	// DeleteExpired removes documents uploaded before now-maxAge and
	// returns the number removed.
	DeleteExpired(ctx context.Context, maxAge time.Duration) (int, error)
}
