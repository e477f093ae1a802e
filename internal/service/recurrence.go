package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"project-echo/internal/model"
	"project-echo/internal/repository"
)

// NextDueDate returns today plus the recurrence interval. Monthly is a flat
// 30 days. Unknown types have no next date.
func NextDueDate(rt model.RecurrenceType, today model.Date) (model.Date, bool) {
	switch rt {
	case model.RecurDaily:
		return today.AddDays(1), true
	case model.RecurWeekly:
		return today.AddDays(7), true
	case model.RecurMonthly:
		return today.AddDays(30), true
	default:
		return model.Date{}, false
	}
}

// RecurringInput carries the editable fields of a template.
type RecurringInput struct {
	Item           string
	Project        string
	RecurrenceType model.RecurrenceType
	NextDueDate    string
	IsActive       bool
}

// RecurrenceService manages recurring templates and spawns todos from them.
type RecurrenceService struct {
	db   *gorm.DB
	repo *repository.RecurringRepository
	log  *slog.Logger
}

func NewRecurrenceService(db *gorm.DB, repo *repository.RecurringRepository, log *slog.Logger) *RecurrenceService {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RecurrenceService{db: db, repo: repo, log: log}
}

// Advance creates one todo for every active template due on or before today
// and moves each template's next due date forward from today. A template
// overdue by several periods still yields a single todo. Each template is
// handled in its own transaction; on failure the count created so far is
// returned with the error.
func (s *RecurrenceService) Advance(ctx context.Context, today model.Date) (int, error) {
	due, err := s.repo.ListDue(ctx, today)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, tmpl := range due {
		next, ok := NextDueDate(tmpl.RecurrenceType, today)
		if !ok {
			s.log.Warn("skipping recurring todo with unknown recurrence type",
				slog.Uint64("id", uint64(tmpl.ID)),
				slog.String("type", string(tmpl.RecurrenceType)))
			continue
		}

		start := today
		todo := model.Todo{
			Project:   tmpl.ProjectLabel(),
			Item:      tmpl.Item,
			StartDate: &start,
			Priority:  model.PriorityLow,
			Status:    model.TodoActive,
		}
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := repository.NewTodoRepository(tx).Create(ctx, &todo); err != nil {
				return err
			}
			return s.repo.WithTx(tx).UpdateNextDueDate(ctx, tmpl.ID, next)
		})
		if err != nil {
			return created, fmt.Errorf("advance recurring todo %d: %w", tmpl.ID, err)
		}
		created++
		s.log.Debug("recurring todo advanced",
			slog.Uint64("id", uint64(tmpl.ID)),
			slog.Uint64("todo_id", uint64(todo.ID)),
			slog.String("next_due_date", next.String()))
	}

	if created > 0 {
		s.log.Info("recurring todos created", slog.Int("count", created), slog.String("today", today.String()))
	}
	return created, nil
}

func (s *RecurrenceService) Create(ctx context.Context, input RecurringInput) (*model.RecurringTodo, error) {
	tmpl, err := buildRecurring(input)
	if err != nil {
		return nil, err
	}
	tmpl.IsActive = true
	if err := s.repo.Create(ctx, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

func (s *RecurrenceService) Update(ctx context.Context, id uint, input RecurringInput) (*model.RecurringTodo, error) {
	tmpl, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := buildRecurring(input)
	if err != nil {
		return nil, err
	}
	updated.ID = tmpl.ID
	updated.IsActive = input.IsActive
	if err := s.repo.Save(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *RecurrenceService) Get(ctx context.Context, id uint) (*model.RecurringTodo, error) {
	tmpl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("recurring todo", id, err)
	}
	return tmpl, nil
}

func (s *RecurrenceService) List(ctx context.Context) ([]model.RecurringTodo, error) {
	return s.repo.List(ctx)
}

func buildRecurring(input RecurringInput) (*model.RecurringTodo, error) {
	item := strings.TrimSpace(input.Item)
	if item == "" || input.RecurrenceType == "" || input.NextDueDate == "" {
		return nil, invalidf("please fill out all required fields")
	}
	if _, ok := NextDueDate(input.RecurrenceType, model.Date{}); !ok {
		return nil, invalidf("unknown recurrence type %q", input.RecurrenceType)
	}
	due, err := model.ParseDate(input.NextDueDate)
	if err != nil {
		return nil, invalidf("next due date must be YYYY-MM-DD")
	}
	return &model.RecurringTodo{
		Item:           item,
		Project:        optionalString(input.Project),
		RecurrenceType: input.RecurrenceType,
		NextDueDate:    due,
	}, nil
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
