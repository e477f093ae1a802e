package service

import (
	"context"
	"strings"

	"project-echo/internal/model"
	"project-echo/internal/repository"
)

// TodoInput represents data required to create or edit a todo. Dates are
// YYYY-MM-DD or empty.
type TodoInput struct {
	Project   string
	Item      string
	StartDate string
	DueDate   string
	Priority  model.Priority
	Status    model.TodoStatus
}

// ProjectTodos groups todos sharing a project label.
type ProjectTodos struct {
	Project string
	Todos   []model.Todo
}

// TodoService wraps todo-related business logic.
type TodoService struct {
	repo *repository.TodoRepository
}

func NewTodoService(repo *repository.TodoRepository) *TodoService {
	return &TodoService{repo: repo}
}

func (s *TodoService) Create(ctx context.Context, input TodoInput, today model.Date) (*model.Todo, error) {
	var todo model.Todo
	if err := applyTodoInput(&todo, input, today); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (s *TodoService) Update(ctx context.Context, id uint, input TodoInput, today model.Date) (*model.Todo, error) {
	todo, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyTodoInput(todo, input, today); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) Get(ctx context.Context, id uint) (*model.Todo, error) {
	todo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("todo", id, err)
	}
	return todo, nil
}

// SetStatus moves a todo to status, stamping or clearing the finished date.
func (s *TodoService) SetStatus(ctx context.Context, id uint, status model.TodoStatus, today model.Date) (*model.Todo, error) {
	if !status.Valid() {
		return nil, invalidf("unknown status %q", status)
	}
	todo, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	transition(todo, status, today)
	if err := s.repo.Save(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// ListGroupedByProject returns all todos grouped by project in project order.
func (s *TodoService) ListGroupedByProject(ctx context.Context) ([]ProjectTodos, error) {
	todos, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var groups []ProjectTodos
	for _, t := range todos {
		if n := len(groups); n > 0 && groups[n-1].Project == t.Project {
			groups[n-1].Todos = append(groups[n-1].Todos, t)
			continue
		}
		groups = append(groups, ProjectTodos{Project: t.Project, Todos: []model.Todo{t}})
	}
	return groups, nil
}

func (s *TodoService) ListActive(ctx context.Context) ([]model.Todo, error) {
	return s.repo.ListActive(ctx)
}

func applyTodoInput(todo *model.Todo, input TodoInput, today model.Date) error {
	item := strings.TrimSpace(input.Item)
	if item == "" {
		return invalidf("todo item is required")
	}
	priority := input.Priority
	if priority == "" {
		priority = model.PriorityLow
	}
	if !priority.Valid() {
		return invalidf("unknown priority %q", input.Priority)
	}
	status := input.Status
	if status == "" {
		status = model.TodoActive
	}
	if !status.Valid() {
		return invalidf("unknown status %q", input.Status)
	}
	start, err := model.ParseOptionalDate(strings.TrimSpace(input.StartDate))
	if err != nil {
		return invalidf("start date must be YYYY-MM-DD")
	}
	due, err := model.ParseOptionalDate(strings.TrimSpace(input.DueDate))
	if err != nil {
		return invalidf("due date must be YYYY-MM-DD")
	}

	todo.Project = strings.TrimSpace(input.Project)
	todo.Item = item
	todo.StartDate = start
	todo.DueDate = due
	todo.Priority = priority
	transition(todo, status, today)
	return nil
}

// transition keeps FinishedDate non-nil exactly when the todo is finished.
func transition(todo *model.Todo, status model.TodoStatus, today model.Date) {
	switch {
	case status == model.TodoFinished && todo.FinishedDate == nil:
		finished := today
		todo.FinishedDate = &finished
	case status != model.TodoFinished:
		todo.FinishedDate = nil
	}
	todo.Status = status
}
