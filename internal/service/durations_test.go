package service

import (
	"context"
	"testing"

	"project-echo/internal/model"
)

func TestComputeDurationsTruncatesToWholeMinutes(t *testing.T) {
	entries := []model.Entry{
		{Timestamp: mustTimestamp(t, "2024-01-01 09:00:00")},
		{Timestamp: mustTimestamp(t, "2024-01-01 09:15:30")},
		{Timestamp: mustTimestamp(t, "2024-01-01 10:00:00")},
	}
	assertDurations(t, ComputeDurations(entries), nil, intPtr(15), intPtr(44))
}

func TestComputeDurationsEdgeCases(t *testing.T) {
	if got := ComputeDurations(nil); len(got) != 0 {
		t.Fatalf("expected no durations, got %d", len(got))
	}
	single := []model.Entry{{Timestamp: mustTimestamp(t, "2024-01-01 09:00:00")}}
	assertDurations(t, ComputeDurations(single), nil)

	same := []model.Entry{
		{Timestamp: mustTimestamp(t, "2024-01-01 09:00:00")},
		{Timestamp: mustTimestamp(t, "2024-01-01 09:00:59")},
	}
	assertDurations(t, ComputeDurations(same), nil, intPtr(0))
}

func TestRecalculateDayRewritesStaleValues(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	insertEntries(t, db,
		model.Entry{Timestamp: mustTimestamp(t, "2024-01-01 10:00:00"), Content: "c", DurationMinutes: intPtr(99)},
		model.Entry{Timestamp: mustTimestamp(t, "2024-01-01 09:00:00"), Content: "a", DurationMinutes: intPtr(7)},
		model.Entry{Timestamp: mustTimestamp(t, "2024-01-01 09:15:30"), Content: "b"},
		model.Entry{Timestamp: mustTimestamp(t, "2024-01-02 08:00:00"), Content: "other day", DurationMinutes: intPtr(3)},
	)

	if err := RecalculateDay(ctx, db, mustDate(t, "2024-01-01")); err != nil {
		t.Fatalf("RecalculateDay failed: %v", err)
	}
	assertDurations(t, durationsOf(t, db, "2024-01-01"), nil, intPtr(15), intPtr(44))
	// Other days are untouched.
	assertDurations(t, durationsOf(t, db, "2024-01-02"), intPtr(3))

	if err := RecalculateDay(ctx, db, mustDate(t, "2024-01-01")); err != nil {
		t.Fatalf("second RecalculateDay failed: %v", err)
	}
	assertDurations(t, durationsOf(t, db, "2024-01-01"), nil, intPtr(15), intPtr(44))
}

func TestRecalculateDaySingleAndEmpty(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	insertEntries(t, db,
		model.Entry{Timestamp: mustTimestamp(t, "2024-03-05 12:00:00"), Content: "only", DurationMinutes: intPtr(12)},
	)

	if err := RecalculateDay(ctx, db, mustDate(t, "2024-03-05")); err != nil {
		t.Fatalf("RecalculateDay failed: %v", err)
	}
	assertDurations(t, durationsOf(t, db, "2024-03-05"), nil)

	if err := RecalculateDay(ctx, db, mustDate(t, "2024-03-06")); err != nil {
		t.Fatalf("RecalculateDay on empty day failed: %v", err)
	}
}

func TestRecalculateDayKeepsInsertionOrderForEqualTimestamps(t *testing.T) {
	db := setupTestDB(t)
	insertEntries(t, db,
		model.Entry{Timestamp: mustTimestamp(t, "2024-01-01 09:00:00"), Content: "first"},
		model.Entry{Timestamp: mustTimestamp(t, "2024-01-01 09:00:00"), Content: "second"},
		model.Entry{Timestamp: mustTimestamp(t, "2024-01-01 09:30:00"), Content: "third"},
	)
	if err := RecalculateDay(context.Background(), db, mustDate(t, "2024-01-01")); err != nil {
		t.Fatalf("RecalculateDay failed: %v", err)
	}
	assertDurations(t, durationsOf(t, db, "2024-01-01"), nil, intPtr(0), intPtr(30))
}
