package client

import (
	"context"
	"sync"
	"time"
)

// State is the terminal outcome of a polling run.
type State int

const (
	// StateSucceeded means the server reported the document processed with a summary.
	StateSucceeded State = iota
	// StateFailed means the server reported a processing error, or a request failed.
	StateFailed
	// StateTimedOut means no terminal state was observed within the timeout.
	StateTimedOut
)

// Result is the outcome of Poller.Run.
type Result struct {
	State    State
	Document Document
	Err      error
}

const (
	defaultPollInterval     = 2 * time.Second
	defaultProgressInterval = 800 * time.Millisecond
	defaultTimeout          = 2 * time.Minute
)

// Poller drives the processing-wait flow: it polls the document until the
// server reports a terminal state or the client-side timeout fires.
//
// The progress value is a cosmetic animation advancing on its own clock. It
// says nothing about actual server progress and never feeds back into the
// polling decisions.
type Poller struct {
	Client           *Client
	PollInterval     time.Duration
	ProgressInterval time.Duration
	Timeout          time.Duration

	mu       sync.Mutex
	progress int
	step     string
}

// NewPoller constructs a Poller with default intervals.
func NewPoller(c *Client) *Poller {
	return &Poller{
		Client:           c,
		PollInterval:     defaultPollInterval,
		ProgressInterval: defaultProgressInterval,
		Timeout:          defaultTimeout,
	}
}

// Progress returns the simulated progress percentage and step label.
func (p *Poller) Progress() (int, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progress, p.step
}

// Run polls the document until a terminal state is reached. It blocks; run it
// from the goroutine that owns the waiting view.
func (p *Poller) Run(ctx context.Context, documentID int64) Result {
	pollInterval := p.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	progressInterval := p.ProgressInterval
	if progressInterval <= 0 {
		progressInterval = defaultProgressInterval
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	p.setProgress(0, "Extracting document text")

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	pollTick := time.NewTicker(pollInterval)
	defer pollTick.Stop()
	progressTick := time.NewTicker(progressInterval)
	defer progressTick.Stop()

	// First check happens immediately; uploads often finish fast.
	if result, done := p.check(ctx, documentID); done {
		return result
	}

	for {
		select {
		case <-ctx.Done():
			return Result{State: StateFailed, Err: ctx.Err()}
		case <-deadline.C:
			return Result{State: StateTimedOut}
		case <-progressTick.C:
			p.advanceProgress()
		case <-pollTick.C:
			if result, done := p.check(ctx, documentID); done {
				return result
			}
		}
	}
}

func (p *Poller) check(ctx context.Context, documentID int64) (Result, bool) {
	doc, err := p.Client.Get(ctx, documentID)
	if err != nil {
		return Result{State: StateFailed, Err: err}, true
	}
	if doc.ProcessingError != nil && *doc.ProcessingError != "" {
		return Result{State: StateFailed, Document: doc}, true
	}
	if doc.IsProcessed && doc.Summary != nil {
		p.setProgress(100, "Summary ready")
		return Result{State: StateSucceeded, Document: doc}, true
	}
	return Result{}, false
}

func (p *Poller) advanceProgress() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.progress >= 100 {
		return
	}
	p.progress += 5
	switch p.progress {
	case 25:
		p.step = "Analyzing document structure"
	case 50:
		p.step = "Identifying key information"
	case 75:
		p.step = "Generating summary"
	}
	if p.progress > 100 {
		p.progress = 100
	}
}

func (p *Poller) setProgress(value int, step string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress = value
	p.step = step
}
