package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"project-echo/internal/model"
	"project-echo/internal/repository"
)

// ComputeDurations returns, for entries already in chronological order, the
// whole minutes elapsed since the previous entry. The first value is nil.
func ComputeDurations(entries []model.Entry) []*int {
	out := make([]*int, len(entries))
	for i := 1; i < len(entries); i++ {
		minutes := int(entries[i].Timestamp.Sub(entries[i-1].Timestamp.Time) / time.Minute)
		out[i] = &minutes
	}
	return out
}

// RecalculateDay rewrites duration_minutes for every entry on day. db is
// usually the caller's open transaction. A day without entries is a no-op.
func RecalculateDay(ctx context.Context, db *gorm.DB, day model.Date) error {
	repo := repository.NewEntryRepository(db)
	entries, err := repo.ListForDay(ctx, day)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	for i, minutes := range ComputeDurations(entries) {
		if err := repo.UpdateDuration(ctx, entries[i].ID, minutes); err != nil {
			return err
		}
	}
	return nil
}
