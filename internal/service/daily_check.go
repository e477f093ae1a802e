package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"project-echo/internal/config"
	"project-echo/internal/model"
)

// Advancer spawns todos from due recurring templates.
type Advancer interface {
	Advance(ctx context.Context, today model.Date) (int, error)
}

// Digester renders the daily digest.
type Digester interface {
	DailyDigest(ctx context.Context, today model.Date) (string, error)
}

// Notifier delivers a rendered digest somewhere a human will read it.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// DailyCheck runs the recurrence advancer at most once per calendar day, and
// only once the local clock has reached the configured check time.
type DailyCheck struct {
	advancer Advancer
	digest   Digester
	loc      *time.Location
	hour     int
	minute   int
	log      *slog.Logger

	mu       sync.Mutex
	notifier Notifier
	lastRun  *model.Date
}

func NewDailyCheck(advancer Advancer, digest Digester, checkAt string, loc *time.Location, log *slog.Logger) (*DailyCheck, error) {
	hour, minute, err := config.ParseClock(checkAt)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}
	return &DailyCheck{
		advancer: advancer,
		digest:   digest,
		loc:      loc,
		hour:     hour,
		minute:   minute,
		log:      log,
	}, nil
}

// SetNotifier attaches the digest receiver. Nil disables notifications.
func (c *DailyCheck) SetNotifier(n Notifier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifier = n
}

// Run advances recurring todos if today's check is still pending. ran
// reports whether the advancer was invoked. A failed advance leaves the day
// pending so the next call retries.
func (c *DailyCheck) Run(ctx context.Context, now time.Time) (bool, error) {
	local := now.In(c.loc)
	today := model.NewDate(local)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lastRun != nil && !c.lastRun.Before(today) {
		return false, nil
	}
	if local.Hour() < c.hour || (local.Hour() == c.hour && local.Minute() < c.minute) {
		return false, nil
	}

	created, err := c.advancer.Advance(ctx, today)
	if err != nil {
		return false, err
	}
	c.lastRun = &today
	c.log.Info("daily check finished", slog.String("day", today.String()), slog.Int("created", created))

	if c.notifier == nil || c.digest == nil {
		return true, nil
	}
	text, err := c.digest.DailyDigest(ctx, today)
	if err != nil {
		c.log.Error("build daily digest", slog.Any("err", err))
		return true, nil
	}
	if err := c.notifier.Notify(ctx, text); err != nil {
		c.log.Error("send daily digest", slog.Any("err", err))
	}
	return true, nil
}

// LastRun returns the day of the last successful run, if any.
func (c *DailyCheck) LastRun() (model.Date, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastRun == nil {
		return model.Date{}, false
	}
	return *c.lastRun, true
}
