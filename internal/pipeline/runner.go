package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"legalbrief-backend/internal/documents"
	"legalbrief-backend/internal/shared/telemetry"
)

const defaultQueueDepth = 64

// Runner is the in-process task pool the upload handler hands documents to.
// Enqueue is fire-and-forget: no caller awaits the run. Tests use Drain to
// wait for all accepted jobs deterministically.
type Runner struct {
	proc  *Processor
	jobs  chan int64
	group *errgroup.Group
	ctx   context.Context

	mu      sync.Mutex
	closed  bool
	pending sync.WaitGroup
}

// NewRunner constructs a Runner with the given number of workers.
func NewRunner(proc *Processor, workers int) *Runner {
	if workers <= 0 {
		workers = 1
	}
	group, ctx := errgroup.WithContext(context.Background())
	r := &Runner{
		proc:  proc,
		jobs:  make(chan int64, defaultQueueDepth),
		group: group,
		ctx:   ctx,
	}
	for i := 0; i < workers; i++ {
		group.Go(r.work)
	}
	return r
}

// Enqueue accepts a document for processing. It reports false after Shutdown.
// The lock is held across the send so Shutdown can never close the channel
// under an in-flight Enqueue.
func (r *Runner) Enqueue(documentID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.pending.Add(1)
	r.jobs <- documentID
	return true
}

var _ documents.TaskQueue = (*Runner)(nil)

// Drain blocks until every accepted job has finished.
func (r *Runner) Drain() {
	r.pending.Wait()
}

// Shutdown stops accepting jobs, waits for in-flight runs, and releases workers.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()
	close(r.jobs)

	done := make(chan error, 1)
	go func() { done <- r.group.Wait() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) work() error {
	for documentID := range r.jobs {
		r.run(documentID)
	}
	return nil
}

// run executes one pipeline job, recording a panic as a processing error so
// a bad document can never take a worker down.
func (r *Runner) run(documentID int64) {
	defer r.pending.Done()
	defer func() {
		if rec := recover(); rec != nil {
			telemetry.Error("pipeline.panic", map[string]any{
				"document_id": documentID,
				"panic":       fmt.Sprint(rec),
			})
			msg := fmt.Sprintf("document processing failed: %v", rec)
			if doc, err := r.proc.Docs.Get(r.ctx, documentID); err == nil && doc.ProcessingError == nil {
				_, _ = r.proc.Docs.Update(r.ctx, documentID, documents.DocumentUpdate{ProcessingError: &msg})
			}
		}
	}()
	r.proc.Process(r.ctx, documentID)
}
