package sweeper

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"legalbrief-backend/internal/documents"
	"legalbrief-backend/internal/shared/session"
	"legalbrief-backend/internal/shared/telemetry"
)

// Schedule for the expiry sweep.
const Schedule = "@hourly"

// Sweeper periodically deletes documents past the retention window and
// prunes expired sessions.
type Sweeper struct {
	repo     documents.Repo
	sessions *session.Manager
	maxAge   time.Duration
	cron     *cron.Cron
}

// New constructs a Sweeper with the given retention window.
func New(repo documents.Repo, sessions *session.Manager, maxAge time.Duration) *Sweeper {
	return &Sweeper{
		repo:     repo,
		sessions: sessions,
		maxAge:   maxAge,
		cron:     cron.New(),
	}
}

// Start schedules the hourly sweep.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(Schedule, s.RunOnce); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the schedule; a sweep already running completes.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce performs a single sweep.
func (s *Sweeper) RunOnce() {
	count, err := s.repo.DeleteExpired(context.Background(), s.maxAge)
	if err != nil {
		telemetry.Error("sweep.failed", map[string]any{
			"error": err.Error(),
		})
		return
	}
	if count > 0 {
		telemetry.Info("sweep.completed", map[string]any{
			"documents_removed": count,
		})
	}
	if s.sessions != nil {
		if pruned := s.sessions.PruneExpired(); pruned > 0 {
			telemetry.Info("sweep.sessions_pruned", map[string]any{
				"sessions_removed": pruned,
			})
		}
	}
}
