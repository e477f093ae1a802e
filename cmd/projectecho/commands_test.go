package main

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"project-echo/internal/model"
	"project-echo/internal/repository"
	"project-echo/internal/service"
)

func testEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	t.Setenv("RECURRENCE_CHECK_TIME", "")
	t.Setenv("LOG_LEVEL", "error")
	return filepath.Join(t.TempDir(), "cli.db")
}

func seed(t *testing.T, path string, fn func(ctx context.Context, s services)) {
	t.Helper()
	db, err := repository.NewDB(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	entries := repository.NewEntryRepository(db)
	todos := repository.NewTodoRepository(db)
	s := services{
		entries:   service.NewEntryService(db, entries, time.UTC),
		todos:     service.NewTodoService(todos),
		recurring: service.NewRecurrenceService(db, repository.NewRecurringRepository(db), nil),
	}
	fn(context.Background(), s)
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRecalcRequiresExactlyOneMode(t *testing.T) {
	tests := []struct {
		date string
		all  bool
	}{
		{date: "", all: false},
		{date: "2024-03-05", all: true},
	}
	for _, tt := range tests {
		recalcDate, recalcAll = tt.date, tt.all
		if err := runRecalc(recalcCmd, nil); err == nil {
			t.Errorf("runRecalc(date=%q, all=%v) expected error", tt.date, tt.all)
		}
	}
	recalcDate, recalcAll = "", false
}

func TestAdvanceCommand(t *testing.T) {
	path := testEnv(t)
	seed(t, path, func(ctx context.Context, s services) {
		_, err := s.recurring.Create(ctx, service.RecurringInput{
			Item:           "weekly review",
			RecurrenceType: model.RecurWeekly,
			NextDueDate:    "2024-03-04",
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	})

	out, err := execute(t, "advance", "--db", path, "--date", "2024-03-05")
	if err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if !strings.Contains(out, "1 todo(s) created for 2024-03-05") {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = execute(t, "advance", "--db", path, "--date", "2024-03-05")
	if err != nil {
		t.Fatalf("second advance failed: %v", err)
	}
	if !strings.Contains(out, "0 todo(s) created") {
		t.Fatalf("expected nothing due on rerun, got %q", out)
	}
}

func TestAdvanceRejectsBadDate(t *testing.T) {
	path := testEnv(t)
	if _, err := execute(t, "advance", "--db", path, "--date", "05.03.2024"); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}

func TestExportCommandWritesZip(t *testing.T) {
	path := testEnv(t)
	seed(t, path, func(ctx context.Context, s services) {
		_, err := s.entries.Create(ctx, service.EntryInput{Content: "planning", Project: "echo"},
			mustTime(t, "2024-03-05T09:00:00Z"))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	})

	target := filepath.Join(t.TempDir(), "out.zip")
	out, err := execute(t, "export", "--db", path, "--from", "2024-03-01", "--to", "2024-03-31", "--out", target)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("unexpected output %q", out)
	}

	zr, err := zip.OpenReader(target)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	defer zr.Close()
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	if strings.Join(names, ",") != "journal_entries.csv,finished_todos.csv" {
		t.Fatalf("unexpected archive contents %v", names)
	}
}

func TestReportCommandWritesPDF(t *testing.T) {
	path := testEnv(t)
	target := filepath.Join(t.TempDir(), "day.pdf")
	if _, err := execute(t, "report", "--db", path, "--date", "2024-03-05", "--out", target); err != nil {
		t.Fatalf("report failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected a PDF, got %q", data[:min(len(data), 8)])
	}
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return ts
}
