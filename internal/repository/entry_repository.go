package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"project-echo/internal/model"
)

// EntryRepository handles persistence of journal entries.
type EntryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *EntryRepository) WithTx(tx *gorm.DB) *EntryRepository {
	return &EntryRepository{db: tx}
}

func (r *EntryRepository) Create(ctx context.Context, entry *model.Entry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("create entry: %w", err)
	}
	return nil
}

// Save writes every column of the entry.
func (r *EntryRepository) Save(ctx context.Context, entry *model.Entry) error {
	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		return fmt.Errorf("save entry %d: %w", entry.ID, err)
	}
	return nil
}

func (r *EntryRepository) FindByID(ctx context.Context, id uint) (*model.Entry, error) {
	var entry model.Entry
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListForDay returns the entries of one day in chronological order. Entries
// sharing a timestamp keep insertion order.
func (r *EntryRepository) ListForDay(ctx context.Context, day model.Date) ([]model.Entry, error) {
	var entries []model.Entry
	if err := r.db.WithContext(ctx).
		Where("substr(timestamp, 1, 10) = ?", day).
		Order("timestamp ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list entries for %s: %w", day, err)
	}
	return entries, nil
}

// ListRange returns entries with from <= day <= to, oldest first.
func (r *EntryRepository) ListRange(ctx context.Context, from, to model.Date) ([]model.Entry, error) {
	var entries []model.Entry
	if err := r.db.WithContext(ctx).
		Where("timestamp >= ? AND timestamp < ?", from.Start(), to.AddDays(1).Start()).
		Order("timestamp ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list entries %s..%s: %w", from, to, err)
	}
	return entries, nil
}

// ListAll returns every entry, newest first.
func (r *EntryRepository) ListAll(ctx context.Context) ([]model.Entry, error) {
	var entries []model.Entry
	if err := r.db.WithContext(ctx).Order("timestamp DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// Days returns the distinct days that have at least one entry within
// [from, to].
func (r *EntryRepository) Days(ctx context.Context, from, to model.Date) ([]model.Date, error) {
	var raw []string
	if err := r.db.WithContext(ctx).Raw(
		"SELECT DISTINCT substr(timestamp, 1, 10) FROM entries WHERE timestamp >= ? AND timestamp < ? ORDER BY 1",
		from.Start(), to.AddDays(1).Start(),
	).Scan(&raw).Error; err != nil {
		return nil, fmt.Errorf("list entry days: %w", err)
	}
	return parseDays(raw)
}

// AllDays returns every day that has entries, oldest first.
func (r *EntryRepository) AllDays(ctx context.Context) ([]model.Date, error) {
	var raw []string
	if err := r.db.WithContext(ctx).Raw(
		"SELECT DISTINCT substr(timestamp, 1, 10) FROM entries ORDER BY 1",
	).Scan(&raw).Error; err != nil {
		return nil, fmt.Errorf("list entry days: %w", err)
	}
	return parseDays(raw)
}

// UpdateDuration writes only the duration column.
func (r *EntryRepository) UpdateDuration(ctx context.Context, id uint, minutes *int) error {
	if err := r.db.WithContext(ctx).Model(&model.Entry{}).
		Where("id = ?", id).
		Update("duration_minutes", minutes).Error; err != nil {
		return fmt.Errorf("update duration for entry %d: %w", id, err)
	}
	return nil
}

// ProjectTotal is the sum of tracked minutes for one project on one day.
type ProjectTotal struct {
	Day     string
	Project string
	Minutes int
}

// Totals sums durations per day and project within [from, to].
func (r *EntryRepository) Totals(ctx context.Context, from, to model.Date) ([]ProjectTotal, error) {
	const q = `
SELECT substr(timestamp, 1, 10) AS day,
       COALESCE(project, '') AS project,
       COALESCE(SUM(duration_minutes), 0) AS minutes
FROM entries
WHERE timestamp >= ? AND timestamp < ?
GROUP BY substr(timestamp, 1, 10), COALESCE(project, '')
ORDER BY day ASC, project ASC`
	var totals []ProjectTotal
	if err := r.db.WithContext(ctx).Raw(q, from.Start(), to.AddDays(1).Start()).Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("sum durations %s..%s: %w", from, to, err)
	}
	return totals, nil
}

func parseDays(raw []string) ([]model.Date, error) {
	days := make([]model.Date, 0, len(raw))
	for _, s := range raw {
		d, err := model.ParseDate(s)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, nil
}
