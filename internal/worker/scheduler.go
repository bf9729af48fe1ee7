package worker

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs periodic background jobs.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler creates a stopped scheduler. Specs use the standard five-field
// cron syntax plus descriptors such as "@every 5m".
func NewScheduler(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
	}
}

// Start begins running registered jobs.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs, up to timeout.
func (s *Scheduler) Stop(timeout time.Duration) {
	s.logger.Info("stopping scheduler")
	ctx := s.cron.Stop()

	select {
	case <-ctx.Done():
		s.logger.Info("scheduler stopped")
	case <-time.After(timeout):
		s.logger.Warn("scheduler stop timeout reached", zap.Duration("timeout", timeout))
	}
}

// AddJob registers cmd under the given spec.
func (s *Scheduler) AddJob(spec string, cmd func()) error {
	if _, err := s.cron.AddFunc(spec, cmd); err != nil {
		s.logger.Error("add cron job", zap.String("spec", spec), zap.Error(err))
		return err
	}
	return nil
}
