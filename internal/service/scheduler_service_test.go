package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

type checkFunc func(ctx context.Context, now time.Time) (bool, error)

func (f checkFunc) Run(ctx context.Context, now time.Time) (bool, error) {
	return f(ctx, now)
}

func TestBuildDailySpec(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "08:00", want: "0 0 8 * * *"},
		{in: "23:59", want: "0 59 23 * * *"},
		{in: "7:05", want: "0 5 7 * * *"},
		{in: "24:00", wantErr: true},
		{in: "0800", wantErr: true},
	}
	for _, tt := range tests {
		got, err := buildDailySpec(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("buildDailySpec(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("buildDailySpec(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildIntervalSpec(t *testing.T) {
	got, err := buildIntervalSpec(15 * time.Minute)
	if err != nil || got != "@every 900s" {
		t.Fatalf("unexpected spec %q, %v", got, err)
	}
	if _, err := buildIntervalSpec(500 * time.Millisecond); err == nil {
		t.Fatalf("expected error for sub-second interval")
	}
}

func TestScheduleCheckRegistersJobs(t *testing.T) {
	noop := checkFunc(func(context.Context, time.Time) (bool, error) { return false, nil })

	s := NewSchedulerService(time.UTC, discardLogger())
	if err := s.ScheduleCheck(context.Background(), noop, "08:00", 15*time.Minute); err != nil {
		t.Fatalf("ScheduleCheck failed: %v", err)
	}
	if s.Jobs() != 2 {
		t.Fatalf("expected daily and catch-up jobs, got %d", s.Jobs())
	}

	s = NewSchedulerService(time.UTC, nil)
	if err := s.ScheduleCheck(context.Background(), noop, "08:00", 0); err != nil {
		t.Fatalf("ScheduleCheck failed: %v", err)
	}
	if s.Jobs() != 1 {
		t.Fatalf("expected only the daily job, got %d", s.Jobs())
	}

	if err := s.ScheduleCheck(context.Background(), noop, "8am", 0); err == nil {
		t.Fatalf("expected error for malformed time")
	}
}

func TestRunCheck(t *testing.T) {
	fixed := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	s := NewSchedulerService(time.UTC, discardLogger())
	s.now = func() time.Time { return fixed }

	var seen time.Time
	ok := s.RunCheck(context.Background(), checkFunc(func(ctx context.Context, now time.Time) (bool, error) {
		if _, has := ctx.Deadline(); !has {
			t.Errorf("expected job context with deadline")
		}
		seen = now
		return true, nil
	}))
	if !ok || !seen.Equal(fixed) {
		t.Fatalf("unexpected run: ok=%v now=%v", ok, seen)
	}

	ok = s.RunCheck(context.Background(), checkFunc(func(context.Context, time.Time) (bool, error) {
		return false, errors.New("boom")
	}))
	if ok {
		t.Fatalf("failed check must not report a run")
	}
}
