package service

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"project-echo/internal/model"
	"project-echo/internal/repository"
)

// EntryInput represents the editable fields of a journal entry. Timestamp is
// only honoured on update; an empty value keeps the stored one.
type EntryInput struct {
	Content   string
	Project   string
	Timestamp string
}

// DayEntries groups the entries of one calendar day.
type DayEntries struct {
	Day     model.Date
	Entries []model.Entry
}

// EntryService wraps journal entry logic. Every write recalculates the
// durations of the affected day inside the same transaction.
type EntryService struct {
	db   *gorm.DB
	repo *repository.EntryRepository
	loc  *time.Location
}

func NewEntryService(db *gorm.DB, repo *repository.EntryRepository, loc *time.Location) *EntryService {
	if loc == nil {
		loc = time.Local
	}
	return &EntryService{db: db, repo: repo, loc: loc}
}

// Create stores a new entry stamped with the local wall-clock time of at.
func (s *EntryService) Create(ctx context.Context, input EntryInput, at time.Time) (*model.Entry, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, invalidf("entry content is required")
	}
	entry := model.Entry{
		Timestamp: model.NewTimestamp(at.In(s.loc)),
		Content:   content,
		Project:   optionalString(input.Project),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, &entry); err != nil {
			return err
		}
		return RecalculateDay(ctx, tx, entry.Timestamp.Day())
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, entry.ID)
}

// Update rewrites content and project and, when given, the timestamp. If the
// entry moves to another day both days are recalculated.
func (s *EntryService) Update(ctx context.Context, id uint, input EntryInput) (*model.Entry, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, invalidf("entry content is required")
	}

	var ts *model.Timestamp
	if strings.TrimSpace(input.Timestamp) != "" {
		parsed, err := ParseEntryTimestamp(input.Timestamp)
		if err != nil {
			return nil, err
		}
		ts = &parsed
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		entry, err := repo.FindByID(ctx, id)
		if err != nil {
			return notFound("entry", id, err)
		}
		oldDay := entry.Timestamp.Day()

		entry.Content = content
		entry.Project = optionalString(input.Project)
		if ts != nil {
			entry.Timestamp = *ts
		}
		if err := repo.Save(ctx, entry); err != nil {
			return err
		}

		newDay := entry.Timestamp.Day()
		if err := RecalculateDay(ctx, tx, newDay); err != nil {
			return err
		}
		if !newDay.Equal(oldDay) {
			return RecalculateDay(ctx, tx, oldDay)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *EntryService) Get(ctx context.Context, id uint) (*model.Entry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("entry", id, err)
	}
	return entry, nil
}

// ListDay returns the day's entries in chronological order.
func (s *EntryService) ListDay(ctx context.Context, day model.Date) ([]model.Entry, error) {
	return s.repo.ListForDay(ctx, day)
}

// ListGroupedByDate returns every entry grouped by day, newest day first.
func (s *EntryService) ListGroupedByDate(ctx context.Context) ([]DayEntries, error) {
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var groups []DayEntries
	for _, e := range entries {
		day := e.Timestamp.Day()
		if n := len(groups); n > 0 && groups[n-1].Day.Equal(day) {
			groups[n-1].Entries = append(groups[n-1].Entries, e)
			continue
		}
		groups = append(groups, DayEntries{Day: day, Entries: []model.Entry{e}})
	}
	return groups, nil
}

// DaysWithEntries lists the days in [from, to] that have at least one entry.
func (s *EntryService) DaysWithEntries(ctx context.Context, from, to model.Date) ([]model.Date, error) {
	return s.repo.Days(ctx, from, to)
}

// RecalculateAll rebuilds durations for every day with entries. It returns
// the number of days processed.
func (s *EntryService) RecalculateAll(ctx context.Context) (int, error) {
	days, err := s.repo.AllDays(ctx)
	if err != nil {
		return 0, err
	}
	for i, day := range days {
		if err := s.Recalculate(ctx, day); err != nil {
			return i, err
		}
	}
	return len(days), nil
}

// Recalculate rebuilds durations for a single day in its own transaction.
func (s *EntryService) Recalculate(ctx context.Context, day model.Date) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return RecalculateDay(ctx, tx, day)
	})
}

var entryTimestampLayouts = []string{
	model.TimestampLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseEntryTimestamp accepts the stored layout and the layouts produced by
// HTML datetime-local inputs.
func ParseEntryTimestamp(s string) (model.Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range entryTimestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return model.NewTimestamp(t), nil
		}
	}
	return model.Timestamp{}, invalidf("timestamp must be YYYY-MM-DD HH:MM:SS, got %q", s)
}
