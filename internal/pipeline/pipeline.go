package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"legalbrief-backend/internal/documents"
	"legalbrief-backend/internal/extract"
	"legalbrief-backend/internal/shared/storage/object"
	"legalbrief-backend/internal/shared/telemetry"
	"legalbrief-backend/internal/summarize"
)

// Processor runs the per-document state machine:
//
//	uploaded -> extracting -> extracted -> summarizing -> summarized
//	                     \-> failed (extraction error)
//
// Each stage runs at most once; there are no retries. The summarizer never
// fails (degraded summaries are data, not errors), so extraction is the only
// failure transition.
type Processor struct {
	Docs       documents.Repo
	Store      object.ObjectStore
	Extractor  extract.Extractor
	Summarizer *summarize.Summarizer
}

// Process executes one pipeline run for the document.
func (p *Processor) Process(ctx context.Context, documentID int64) {
	doc, err := p.Docs.Get(ctx, documentID)
	if err != nil {
		// Nothing to update; the upload may have been swept already.
		telemetry.Error("pipeline.document_missing", map[string]any{
			"document_id": documentID,
			"error":       err.Error(),
		})
		return
	}

	telemetry.Info("pipeline.started", map[string]any{
		"document_id": doc.ID,
		"file_name":   doc.FileName,
		"file_type":   string(doc.FileType),
	})

	filePath, err := p.Store.Path(doc.StorageKey)
	if err != nil {
		p.fail(ctx, doc, fmt.Errorf("resolve upload: %w", err))
		return
	}

	text, err := p.Extractor.Extract(ctx, filePath, string(doc.FileType))
	if err != nil {
		p.fail(ctx, doc, err)
		p.cleanup(ctx, doc)
		return
	}

	if _, err := p.Docs.Update(ctx, doc.ID, documents.DocumentUpdate{OriginalText: &text}); err != nil {
		p.fail(ctx, doc, fmt.Errorf("persist extracted text: %w", err))
		p.cleanup(ctx, doc)
		return
	}
	telemetry.Info("pipeline.extracted", map[string]any{
		"document_id": doc.ID,
		"chars":       len(text),
	})

	summary := p.Summarizer.Summarize(ctx, text)

	processedAt := time.Now().UTC()
	if _, err := p.Docs.Update(ctx, doc.ID, documents.DocumentUpdate{
		ProcessedAt: &processedAt,
		Summary:     &summary,
	}); err != nil {
		telemetry.Error("pipeline.persist_summary_failed", map[string]any{
			"document_id": doc.ID,
			"error":       err.Error(),
		})
	} else {
		telemetry.Info("pipeline.summarized", map[string]any{
			"document_id": doc.ID,
			"degraded":    summary.Degraded,
		})
	}

	p.cleanup(ctx, doc)
}

// fail records the terminal failure on the document. ProcessedAt stays unset:
// failure is signaled by ProcessingError alone.
func (p *Processor) fail(ctx context.Context, doc documents.Document, cause error) {
	msg := humanize(cause)
	telemetry.Error("pipeline.failed", map[string]any{
		"document_id": doc.ID,
		"error":       cause.Error(),
	})
	if _, err := p.Docs.Update(ctx, doc.ID, documents.DocumentUpdate{ProcessingError: &msg}); err != nil {
		telemetry.Error("pipeline.persist_error_failed", map[string]any{
			"document_id": doc.ID,
			"error":       err.Error(),
		})
	}
}

// cleanup removes the staged upload best-effort.
func (p *Processor) cleanup(ctx context.Context, doc documents.Document) {
	if doc.StorageKey == "" {
		return
	}
	if err := p.Store.Remove(ctx, doc.StorageKey); err != nil {
		telemetry.Warn("pipeline.temp_cleanup_failed", map[string]any{
			"document_id": doc.ID,
			"storage_key": doc.StorageKey,
			"error":       err.Error(),
		})
		return
	}
	telemetry.Info("pipeline.temp_deleted", map[string]any{
		"document_id": doc.ID,
	})
}

func humanize(err error) string {
	var extractionErr *extract.ExtractionError
	switch {
	case errors.As(err, &extractionErr):
		return extractionErr.Error()
	case errors.Is(err, extract.ErrUnsupportedType):
		return err.Error()
	default:
		return fmt.Sprintf("document processing failed: %v", err)
	}
}
