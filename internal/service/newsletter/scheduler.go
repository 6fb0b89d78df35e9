package newsletter

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

const tickTimeout = 5 * time.Minute

// Scheduler sends newsletters whose scheduled date has passed. The due
// time lives in the database, so nothing is lost across restarts.
type Scheduler struct {
	repo ports.NewsletterRepository
	svc  *Service
	cron *cron.Cron
	log  *zap.Logger
}

func NewScheduler(repo ports.NewsletterRepository, svc *Service, log *zap.Logger) *Scheduler {
	return &Scheduler{
		repo: repo,
		svc:  svc,
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:  log,
	}
}

// Start registers the poll job on schedule (standard 5-field cron) and runs it.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
		defer cancel()
		s.Tick(ctx)
	}); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("Newsletter scheduler started", zap.String("schedule", schedule))
	return nil
}

// Stop waits for a running tick to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("Newsletter scheduler stop timed out")
	}
}

// Tick sends every due newsletter once.
func (s *Scheduler) Tick(ctx context.Context) {
	due, err := s.repo.DueScheduled(ctx, s.svc.now())
	if err != nil {
		s.log.Error("failed to load scheduled newsletters", zap.Error(err))
		return
	}

	for _, n := range due {
		report, err := s.svc.Send(ctx, n.ID)
		if err != nil {
			var appErr *domain.AppError
			if errors.As(err, &appErr) && appErr.Message == msgNoSubscribers {
				s.log.Warn("scheduled newsletter has no recipients, will retry", zap.String("newsletter_id", n.ID))
				continue
			}
			s.log.Error("scheduled newsletter failed", zap.String("newsletter_id", n.ID), zap.Error(err))
			continue
		}
		s.log.Info("scheduled newsletter dispatched",
			zap.String("newsletter_id", n.ID),
			zap.Int("delivered", report.Delivered),
		)
	}
}
