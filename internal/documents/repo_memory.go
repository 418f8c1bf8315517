package documents

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is the in-memory implementation of Repo. Documents live for the
// process lifetime only.
type MemoryRepo struct {
	mu     sync.RWMutex
	data   map[int64]Document
	nextID int64
	now    func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data:   make(map[int64]Document),
		nextID: 1,
		now:    time.Now,
	}
}

// Create stores the document under a fresh monotonic id.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc.ID = r.nextID
	r.nextID++
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = r.now().UTC()
	}
	doc.ProcessedAt = nil
	doc.Summary = nil
	doc.ProcessingError = nil
	r.data[doc.ID] = doc
	return doc, nil
}

// Get returns a document by id.
func (r *MemoryRepo) Get(ctx context.Context, id int64) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// ListBySession returns the session's documents newest first; uploads with
// identical timestamps keep insertion order.
func (r *MemoryRepo) ListBySession(ctx context.Context, sessionID string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	docs := make([]Document, 0)
	for _, doc := range r.data {
		if doc.SessionID == sessionID {
			docs = append(docs, doc)
		}
	}
	r.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].UploadedAt.Equal(docs[j].UploadedAt) {
			return docs[i].UploadedAt.After(docs[j].UploadedAt)
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

// Update merges the patch into the stored document. The merge is atomic with
// respect to concurrent updates on the same id.
func (r *MemoryRepo) Update(ctx context.Context, id int64, patch DocumentUpdate) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.data[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	if patch.OriginalText != nil {
		doc.OriginalText = patch.OriginalText
	}
	if patch.ProcessedAt != nil {
		doc.ProcessedAt = patch.ProcessedAt
	}
	if patch.Summary != nil {
		doc.Summary = patch.Summary
	}
	if patch.ProcessingError != nil {
		doc.ProcessingError = patch.ProcessingError
	}
	r.data[id] = doc
	return doc, nil
}

// Delete removes one document.
func (r *MemoryRepo) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

// DeleteExpired removes every document older than maxAge.
func (r *MemoryRepo) DeleteExpired(ctx context.Context, maxAge time.Duration) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	count := 0
	for id, doc := range r.data {
		if now.Sub(doc.UploadedAt) > maxAge {
			delete(r.data, id)
			count++
		}
	}
	return count, nil
}

var _ Repo = (*MemoryRepo)(nil)
