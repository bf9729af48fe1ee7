package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Refresher renews the console session token.
type Refresher interface {
	RefreshIfExpiring(ctx context.Context, window time.Duration) (bool, error)
}

// SessionRefreshJob keeps the bearer token fresh. Failures are logged and the
// session stays logged in until the next tick.
type SessionRefreshJob struct {
	refresher Refresher
	window    time.Duration
	timeout   time.Duration
	logger    *zap.Logger
}

// NewSessionRefreshJob builds the job. window is how close to expiry a token
// must be before it is renewed.
func NewSessionRefreshJob(refresher Refresher, window time.Duration, logger *zap.Logger) *SessionRefreshJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionRefreshJob{
		refresher: refresher,
		window:    window,
		timeout:   30 * time.Second,
		logger:    logger,
	}
}

// Run performs a single refresh attempt.
func (j *SessionRefreshJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	refreshed, err := j.refresher.RefreshIfExpiring(ctx, j.window)
	if err != nil {
		j.logger.Warn("session refresh failed", zap.Error(err))
		return
	}
	if refreshed {
		j.logger.Info("session token refreshed")
	}
}

// StartSessionRefresh registers the refresh job on the scheduler.
func StartSessionRefresh(s *Scheduler, spec string, job *SessionRefreshJob) error {
	if job == nil || job.refresher == nil {
		return nil
	}
	return s.AddJob(spec, job.Run)
}
