package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"project-echo/internal/model"
)

// TodoRepository handles CRUD for todos.
type TodoRepository struct {
	db *gorm.DB
}

func NewTodoRepository(db *gorm.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) WithTx(tx *gorm.DB) *TodoRepository {
	return &TodoRepository{db: tx}
}

func (r *TodoRepository) Create(ctx context.Context, todo *model.Todo) error {
	if err := r.db.WithContext(ctx).Create(todo).Error; err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	return nil
}

func (r *TodoRepository) Save(ctx context.Context, todo *model.Todo) error {
	if err := r.db.WithContext(ctx).Save(todo).Error; err != nil {
		return fmt.Errorf("save todo %d: %w", todo.ID, err)
	}
	return nil
}

func (r *TodoRepository) FindByID(ctx context.Context, id uint) (*model.Todo, error) {
	var todo model.Todo
	if err := r.db.WithContext(ctx).First(&todo, id).Error; err != nil {
		return nil, err
	}
	return &todo, nil
}

// ListAll orders by project, then due date with undated todos last.
func (r *TodoRepository) ListAll(ctx context.Context) ([]model.Todo, error) {
	var todos []model.Todo
	if err := r.db.WithContext(ctx).
		Order("project ASC, due_date IS NULL, due_date ASC, id ASC").
		Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func (r *TodoRepository) ListActive(ctx context.Context) ([]model.Todo, error) {
	var todos []model.Todo
	if err := r.db.WithContext(ctx).
		Where("status = ?", model.TodoActive).
		Order("due_date IS NULL, due_date ASC, id ASC").
		Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("list active todos: %w", err)
	}
	return todos, nil
}

// ListFinished returns todos finished within [from, to], oldest first.
func (r *TodoRepository) ListFinished(ctx context.Context, from, to model.Date) ([]model.Todo, error) {
	var todos []model.Todo
	if err := r.db.WithContext(ctx).
		Where("status = ? AND finished_date >= ? AND finished_date < ?", model.TodoFinished, from, to.AddDays(1)).
		Order("finished_date ASC, id ASC").
		Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("list finished todos: %w", err)
	}
	return todos, nil
}
