package documents

import (
	"context"
	"fmt"
	"io"

	"legalbrief-backend/internal/shared/storage/object"
	"legalbrief-backend/internal/shared/telemetry"
)

// TaskQueue accepts a document for asynchronous processing. The upload
// request returns before the task runs.
type TaskQueue interface {
	Enqueue(documentID int64) bool
}

// Service contains business logic for documents.
type Service struct {
	Repo           Repo
	Store          object.ObjectStore
	Tasks          TaskQueue
	MaxUploadBytes int64
}

// Upload validates the file, stages it on disk, records the document, and
// enqueues the processing pipeline.
func (s *Service) Upload(ctx context.Context, sessionID, fileName string, declaredSize int64, r io.Reader) (Document, error) {
	if sessionID == "" {
		return Document{}, fmt.Errorf("%w: session is required", ErrInvalidInput)
	}
	if fileName == "" {
		return Document{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}

	fileType, ok := ParseFileType(fileName)
	if !ok {
		return Document{}, fmt.Errorf("%w: only PDF and DOCX files are allowed", ErrInvalidInput)
	}
	if declaredSize > s.MaxUploadBytes {
		return Document{}, fmt.Errorf("%w: file exceeds the %d MB limit", ErrInvalidInput, s.MaxUploadBytes>>20)
	}

	storageKey, size, err := s.Store.Save(ctx, fileName, r)
	if err != nil {
		return Document{}, fmt.Errorf("stage upload: %w", err)
	}
	if size > s.MaxUploadBytes {
		if removeErr := s.Store.Remove(ctx, storageKey); removeErr != nil {
			telemetry.Error("upload.cleanup_failed", map[string]any{
				"storage_key": storageKey,
				"error":       removeErr.Error(),
			})
		}
		return Document{}, fmt.Errorf("%w: file exceeds the %d MB limit", ErrInvalidInput, s.MaxUploadBytes>>20)
	}

	doc, err := s.Repo.Create(ctx, Document{
		SessionID:  sessionID,
		FileName:   fileName,
		FileType:   fileType,
		FileSize:   size,
		StorageKey: storageKey,
	})
	if err != nil {
		return Document{}, err
	}

	if s.Tasks != nil {
		s.Tasks.Enqueue(doc.ID)
	}

	return doc, nil
}

// List returns the session's documents, newest first.
func (s *Service) List(ctx context.Context, sessionID string) ([]Document, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session is required", ErrInvalidInput)
	}
	return s.Repo.ListBySession(ctx, sessionID)
}

// Get returns one document after checking session ownership.
func (s *Service) Get(ctx context.Context, sessionID string, id int64) (Document, error) {
	doc, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Document{}, err
	}
	if doc.SessionID != sessionID {
		return Document{}, ErrForbidden
	}
	return doc, nil
}
