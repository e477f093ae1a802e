package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"project-echo/internal/model"
	"project-echo/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"), discardLogger())
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustTimestamp(t *testing.T, s string) model.Timestamp {
	t.Helper()
	ts, err := model.ParseTimestamp(s)
	if err != nil {
		t.Fatalf("ParseTimestamp failed: %v", err)
	}
	return ts
}

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	return d
}

// insertEntries stores entries as-is, bypassing duration recalculation.
func insertEntries(t *testing.T, db *gorm.DB, entries ...model.Entry) []model.Entry {
	t.Helper()
	repo := repository.NewEntryRepository(db)
	for i := range entries {
		if err := repo.Create(context.Background(), &entries[i]); err != nil {
			t.Fatalf("Create entry failed: %v", err)
		}
	}
	return entries
}

func durationsOf(t *testing.T, db *gorm.DB, day string) []*int {
	t.Helper()
	entries, err := repository.NewEntryRepository(db).ListForDay(context.Background(), mustDate(t, day))
	if err != nil {
		t.Fatalf("ListForDay failed: %v", err)
	}
	out := make([]*int, len(entries))
	for i, e := range entries {
		out[i] = e.DurationMinutes
	}
	return out
}

func assertDurations(t *testing.T, got []*int, want ...*int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d durations, want %d", len(got), len(want))
	}
	for i := range want {
		switch {
		case want[i] == nil && got[i] != nil:
			t.Errorf("duration[%d] = %d, want nil", i, *got[i])
		case want[i] != nil && got[i] == nil:
			t.Errorf("duration[%d] = nil, want %d", i, *want[i])
		case want[i] != nil && *got[i] != *want[i]:
			t.Errorf("duration[%d] = %d, want %d", i, *got[i], *want[i])
		}
	}
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}
