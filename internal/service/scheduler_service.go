package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"project-echo/internal/config"
)

// Checker is a job the scheduler may fire more often than needed; it decides
// by itself whether there is work to do.
type Checker interface {
	Run(ctx context.Context, now time.Time) (bool, error)
}

// SchedulerService fires the daily check on a cron clock in the configured
// zone. Overlapping runs are skipped.
type SchedulerService struct {
	cron       *cron.Cron
	log        *slog.Logger
	now        func() time.Time
	jobTimeout time.Duration
}

func NewSchedulerService(loc *time.Location, log *slog.Logger) *SchedulerService {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cronLog := cron.PrintfLogger(slog.NewLogLogger(log.Handler(), slog.LevelDebug))
	return &SchedulerService{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithSeconds(),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		log:        log,
		now:        time.Now,
		jobTimeout: 30 * time.Second,
	}
}

// ScheduleCheck registers check at checkAt (HH:MM) every day and, when
// catchUp is positive, at that interval too so a slot missed while the
// process was down is picked up later the same day.
func (s *SchedulerService) ScheduleCheck(ctx context.Context, check Checker, checkAt string, catchUp time.Duration) error {
	job := func() { s.RunCheck(ctx, check) }

	spec, err := buildDailySpec(checkAt)
	if err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("schedule daily check: %w", err)
	}
	if catchUp <= 0 {
		return nil
	}
	spec, err = buildIntervalSpec(catchUp)
	if err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("schedule catch-up check: %w", err)
	}
	return nil
}

// RunCheck runs check once under the job timeout and logs the outcome.
func (s *SchedulerService) RunCheck(ctx context.Context, check Checker) bool {
	jobCtx, cancel := context.WithTimeout(ctx, s.jobTimeout)
	defer cancel()

	ran, err := check.Run(jobCtx, s.now())
	switch {
	case err != nil && errors.Is(err, context.Canceled):
		return false
	case err != nil:
		s.log.Error("daily check failed", slog.Any("err", err))
		return false
	case ran:
		s.log.Info("daily check completed")
	}
	return ran
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Jobs reports how many cron entries are registered.
func (s *SchedulerService) Jobs() int {
	return len(s.cron.Entries())
}

func buildDailySpec(timeStr string) (string, error) {
	hour, minute, err := config.ParseClock(timeStr)
	if err != nil {
		return "", err
	}
	// second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}

func buildIntervalSpec(interval time.Duration) (string, error) {
	if interval < time.Second {
		return "", fmt.Errorf("interval %s is shorter than a second", interval)
	}
	return fmt.Sprintf("@every %ds", int(interval/time.Second)), nil
}
