package web

import (
	"fmt"
	"net/http"

	"project-echo/internal/model"
	"project-echo/internal/service"
)

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.svc.Projects.List(r.Context())
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}
	s.render(w, r, "projects.html", map[string]any{"Projects": projects})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.svc.Projects.Create(r.Context(), r.FormValue("name"), r.FormValue("charging_code"))
	if err != nil {
		s.fail(w, r, err, "/projects/")
		return
	}
	setFlash(w, flashSuccess, fmt.Sprintf("Project %q added.", project.Name))
	http.Redirect(w, r, "/projects/", http.StatusSeeOther)
}

func (s *Server) handleEditProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	project, err := s.svc.Projects.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "/projects/")
		return
	}
	s.render(w, r, "edit_project.html", map[string]any{"Project": project})
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	active := r.FormValue("is_active") != ""
	if _, err := s.svc.Projects.Update(r.Context(), id, r.FormValue("name"), active, r.FormValue("charging_code")); err != nil {
		s.fail(w, r, err, fmt.Sprintf("/projects/%d/edit", id))
		return
	}
	setFlash(w, flashSuccess, "Project updated.")
	http.Redirect(w, r, "/projects/", http.StatusSeeOther)
}

func recurringInput(r *http.Request) service.RecurringInput {
	return service.RecurringInput{
		Item:           r.FormValue("item"),
		Project:        r.FormValue("project"),
		RecurrenceType: model.RecurrenceType(r.FormValue("recurrence_type")),
		NextDueDate:    r.FormValue("next_due_date"),
		IsActive:       r.FormValue("is_active") != "",
	}
}

func (s *Server) recurringFormData(r *http.Request, data map[string]any) (map[string]any, error) {
	projects, err := s.svc.Projects.ActiveNames(r.Context())
	if err != nil {
		return nil, err
	}
	data["Projects"] = projects
	data["Types"] = model.RecurrenceTypes
	return data, nil
}

func (s *Server) handleRecurring(w http.ResponseWriter, r *http.Request) {
	templates, err := s.svc.Recurring.List(r.Context())
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}
	data, err := s.recurringFormData(r, map[string]any{"Templates": templates})
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}
	s.render(w, r, "recurring.html", data)
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	if _, err := s.svc.Recurring.Create(r.Context(), recurringInput(r)); err != nil {
		s.fail(w, r, err, "/recurring/")
		return
	}
	setFlash(w, flashSuccess, "Recurring todo added.")
	http.Redirect(w, r, "/recurring/", http.StatusSeeOther)
}

func (s *Server) handleEditRecurring(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	tmpl, err := s.svc.Recurring.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "/recurring/")
		return
	}
	data, err := s.recurringFormData(r, map[string]any{"Template": tmpl})
	if err != nil {
		s.fail(w, r, err, "/recurring/")
		return
	}
	s.render(w, r, "edit_recurring.html", data)
}

func (s *Server) handleUpdateRecurring(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := s.svc.Recurring.Update(r.Context(), id, recurringInput(r)); err != nil {
		s.fail(w, r, err, fmt.Sprintf("/recurring/%d/edit", id))
		return
	}
	setFlash(w, flashSuccess, "Recurring todo updated.")
	http.Redirect(w, r, "/recurring/", http.StatusSeeOther)
}
