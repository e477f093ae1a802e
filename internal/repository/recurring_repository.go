package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"project-echo/internal/model"
)

// RecurringRepository handles recurring todo templates.
type RecurringRepository struct {
	db *gorm.DB
}

func NewRecurringRepository(db *gorm.DB) *RecurringRepository {
	return &RecurringRepository{db: db}
}

func (r *RecurringRepository) WithTx(tx *gorm.DB) *RecurringRepository {
	return &RecurringRepository{db: tx}
}

func (r *RecurringRepository) Create(ctx context.Context, tmpl *model.RecurringTodo) error {
	if err := r.db.WithContext(ctx).Create(tmpl).Error; err != nil {
		return fmt.Errorf("create recurring todo: %w", err)
	}
	return nil
}

func (r *RecurringRepository) Save(ctx context.Context, tmpl *model.RecurringTodo) error {
	if err := r.db.WithContext(ctx).Save(tmpl).Error; err != nil {
		return fmt.Errorf("save recurring todo %d: %w", tmpl.ID, err)
	}
	return nil
}

func (r *RecurringRepository) FindByID(ctx context.Context, id uint) (*model.RecurringTodo, error) {
	var tmpl model.RecurringTodo
	if err := r.db.WithContext(ctx).First(&tmpl, id).Error; err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// List returns active templates first, soonest due first.
func (r *RecurringRepository) List(ctx context.Context) ([]model.RecurringTodo, error) {
	var items []model.RecurringTodo
	if err := r.db.WithContext(ctx).Order("is_active DESC, next_due_date ASC, id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list recurring todos: %w", err)
	}
	return items, nil
}

// ListDue returns active templates whose next due date is on or before today.
func (r *RecurringRepository) ListDue(ctx context.Context, today model.Date) ([]model.RecurringTodo, error) {
	var items []model.RecurringTodo
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND next_due_date <= ?", true, today).
		Order("next_due_date ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list due recurring todos: %w", err)
	}
	return items, nil
}

func (r *RecurringRepository) UpdateNextDueDate(ctx context.Context, id uint, next model.Date) error {
	if err := r.db.WithContext(ctx).Model(&model.RecurringTodo{}).
		Where("id = ?", id).
		Update("next_due_date", next).Error; err != nil {
		return fmt.Errorf("advance recurring todo %d: %w", id, err)
	}
	return nil
}
