package web

import (
	"fmt"
	"net/http"

	"project-echo/internal/model"
	"project-echo/internal/service"
)

func todoInput(r *http.Request) service.TodoInput {
	return service.TodoInput{
		Project:   r.FormValue("project"),
		Item:      r.FormValue("item"),
		StartDate: r.FormValue("start_date"),
		DueDate:   r.FormValue("due_date"),
		Priority:  model.Priority(r.FormValue("priority")),
		Status:    model.TodoStatus(r.FormValue("status")),
	}
}

func (s *Server) todoFormData(r *http.Request, data map[string]any) (map[string]any, error) {
	projects, err := s.svc.Projects.ActiveNames(r.Context())
	if err != nil {
		return nil, err
	}
	data["Projects"] = projects
	data["Priorities"] = model.Priorities
	data["Statuses"] = model.TodoStatuses
	return data, nil
}

func (s *Server) handleTodos(w http.ResponseWriter, r *http.Request) {
	groups, err := s.svc.Todos.ListGroupedByProject(r.Context())
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}
	data, err := s.todoFormData(r, map[string]any{"Groups": groups})
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}
	s.render(w, r, "todos.html", data)
}

func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	if _, err := s.svc.Todos.Create(r.Context(), todoInput(r), s.today()); err != nil {
		s.fail(w, r, err, "/todo/")
		return
	}
	setFlash(w, flashSuccess, "Todo added.")
	http.Redirect(w, r, "/todo/", http.StatusSeeOther)
}

func (s *Server) handleEditTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	todo, err := s.svc.Todos.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "/todo/")
		return
	}
	data, err := s.todoFormData(r, map[string]any{"Todo": todo})
	if err != nil {
		s.fail(w, r, err, "/todo/")
		return
	}
	s.render(w, r, "edit_todo.html", data)
}

func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := s.svc.Todos.Update(r.Context(), id, todoInput(r), s.today()); err != nil {
		s.fail(w, r, err, fmt.Sprintf("/todo/%d/edit", id))
		return
	}
	setFlash(w, flashSuccess, "Todo updated.")
	http.Redirect(w, r, "/todo/", http.StatusSeeOther)
}

// handleTodoStatus backs the one-click finish and reopen buttons.
func (s *Server) handleTodoStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	status := model.TodoStatus(r.FormValue("status"))
	if _, err := s.svc.Todos.SetStatus(r.Context(), id, status, s.today()); err != nil {
		s.fail(w, r, err, "/todo/")
		return
	}
	http.Redirect(w, r, "/todo/", http.StatusSeeOther)
}
