package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"project-echo/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"), log)
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

func TestEntryTimestampRoundTripsAsText(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewEntryRepository(db)

	entry := model.Entry{Timestamp: mustTimestamp(t, "2024-01-01 09:15:30"), Content: "standup"}
	if err := repo.Create(ctx, &entry); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	var raw string
	if err := db.Raw("SELECT timestamp FROM entries WHERE id = ?", entry.ID).Scan(&raw).Error; err != nil {
		t.Fatalf("raw select failed: %v", err)
	}
	if raw != "2024-01-01 09:15:30" {
		t.Fatalf("stored timestamp = %q, want %q", raw, "2024-01-01 09:15:30")
	}

	got, err := repo.FindByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.Timestamp.String() != "2024-01-01 09:15:30" {
		t.Fatalf("loaded timestamp = %s", got.Timestamp)
	}
	if got.DurationMinutes != nil {
		t.Fatalf("expected nil duration, got %d", *got.DurationMinutes)
	}
}

func TestListForDayOrdersByTimestampThenID(t *testing.T) {
	ctx := context.Background()
	repo := NewEntryRepository(setupTestDB(t))

	for _, e := range []model.Entry{
		{Timestamp: mustTimestamp(t, "2024-01-01 10:00:00"), Content: "b"},
		{Timestamp: mustTimestamp(t, "2024-01-01 09:00:00"), Content: "a"},
		{Timestamp: mustTimestamp(t, "2024-01-01 10:00:00"), Content: "c"},
		{Timestamp: mustTimestamp(t, "2024-01-02 00:00:00"), Content: "next day"},
		{Timestamp: mustTimestamp(t, "2023-12-31 23:59:59"), Content: "previous day"},
	} {
		e := e
		if err := repo.Create(ctx, &e); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	entries, err := repo.ListForDay(ctx, mustDate(t, "2024-01-01"))
	if err != nil {
		t.Fatalf("ListForDay failed: %v", err)
	}
	var got string
	for _, e := range entries {
		got += e.Content
	}
	if got != "abc" {
		t.Fatalf("order = %q, want %q", got, "abc")
	}
}

func TestDaysAndTotals(t *testing.T) {
	ctx := context.Background()
	repo := NewEntryRepository(setupTestDB(t))
	alpha := "alpha"
	ten, five := 10, 5

	for _, e := range []model.Entry{
		{Timestamp: mustTimestamp(t, "2024-02-01 09:00:00"), Content: "x", Project: &alpha},
		{Timestamp: mustTimestamp(t, "2024-02-01 09:10:00"), Content: "y", Project: &alpha, DurationMinutes: &ten},
		{Timestamp: mustTimestamp(t, "2024-02-01 09:15:00"), Content: "z", DurationMinutes: &five},
		{Timestamp: mustTimestamp(t, "2024-02-03 12:00:00"), Content: "w"},
	} {
		e := e
		if err := repo.Create(ctx, &e); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	days, err := repo.Days(ctx, mustDate(t, "2024-02-01"), mustDate(t, "2024-02-29"))
	if err != nil {
		t.Fatalf("Days failed: %v", err)
	}
	if len(days) != 2 || days[0].String() != "2024-02-01" || days[1].String() != "2024-02-03" {
		t.Fatalf("Days = %v", days)
	}

	totals, err := repo.Totals(ctx, mustDate(t, "2024-02-01"), mustDate(t, "2024-02-01"))
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	want := []ProjectTotal{
		{Day: "2024-02-01", Project: "", Minutes: 5},
		{Day: "2024-02-01", Project: "alpha", Minutes: 10},
	}
	if len(totals) != len(want) {
		t.Fatalf("Totals = %+v, want %+v", totals, want)
	}
	for i := range want {
		if totals[i] != want[i] {
			t.Errorf("Totals[%d] = %+v, want %+v", i, totals[i], want[i])
		}
	}
}

func TestProjectDuplicateNameTranslated(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepository(setupTestDB(t))

	if err := repo.Create(ctx, &model.Project{Name: "Echo", IsActive: true}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	err := repo.Create(ctx, &model.Project{Name: "Echo", IsActive: true})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected gorm.ErrDuplicatedKey, got %v", err)
	}
}

func TestRecurringListDue(t *testing.T) {
	ctx := context.Background()
	repo := NewRecurringRepository(setupTestDB(t))

	for _, tmpl := range []model.RecurringTodo{
		{Item: "due", RecurrenceType: model.RecurDaily, NextDueDate: mustDate(t, "2024-01-01"), IsActive: true},
		{Item: "today", RecurrenceType: model.RecurWeekly, NextDueDate: mustDate(t, "2024-01-03"), IsActive: true},
		{Item: "future", RecurrenceType: model.RecurDaily, NextDueDate: mustDate(t, "2024-01-04"), IsActive: true},
		{Item: "inactive", RecurrenceType: model.RecurDaily, NextDueDate: mustDate(t, "2024-01-01"), IsActive: false},
	} {
		tmpl := tmpl
		if err := repo.Create(ctx, &tmpl); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	due, err := repo.ListDue(ctx, mustDate(t, "2024-01-03"))
	if err != nil {
		t.Fatalf("ListDue failed: %v", err)
	}
	if len(due) != 2 || due[0].Item != "due" || due[1].Item != "today" {
		t.Fatalf("ListDue = %+v", due)
	}
}

func TestTodoListFinishedInclusiveRange(t *testing.T) {
	ctx := context.Background()
	repo := NewTodoRepository(setupTestDB(t))

	mk := func(item, finished string) {
		d := mustDate(t, finished)
		todo := model.Todo{Item: item, Project: "p", Priority: model.PriorityLow, Status: model.TodoFinished, FinishedDate: &d}
		if err := repo.Create(ctx, &todo); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	mk("before", "2024-02-29")
	mk("first", "2024-03-01")
	mk("last", "2024-03-31")
	mk("after", "2024-04-01")

	todos, err := repo.ListFinished(ctx, mustDate(t, "2024-03-01"), mustDate(t, "2024-03-31"))
	if err != nil {
		t.Fatalf("ListFinished failed: %v", err)
	}
	if len(todos) != 2 || todos[0].Item != "first" || todos[1].Item != "last" {
		t.Fatalf("ListFinished = %+v", todos)
	}
}
