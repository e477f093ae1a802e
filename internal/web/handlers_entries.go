package web

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"project-echo/internal/model"
	"project-echo/internal/service"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	groups, err := s.svc.Entries.ListGroupedByDate(r.Context())
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}
	projects, err := s.svc.Projects.ActiveNames(r.Context())
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}
	s.render(w, r, "index.html", map[string]any{
		"Groups":   groups,
		"Projects": projects,
	})
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	s.createEntry(w, r, "/")
}

func (s *Server) handleCreateDayEntry(w http.ResponseWriter, r *http.Request) {
	day, ok := s.pathDate(w, r)
	if !ok {
		return
	}
	s.createEntry(w, r, "/day/"+day.String())
}

// createEntry stamps the entry with the current time regardless of the page
// it was posted from.
func (s *Server) createEntry(w http.ResponseWriter, r *http.Request, back string) {
	input := service.EntryInput{
		Content: r.FormValue("content"),
		Project: r.FormValue("project"),
	}
	if _, err := s.svc.Entries.Create(r.Context(), input, s.now()); err != nil {
		s.fail(w, r, err, back)
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	day, ok := s.pathDate(w, r)
	if !ok {
		return
	}
	entries, err := s.svc.Entries.ListDay(r.Context(), day)
	if err != nil {
		s.fail(w, r, err, "/calendar")
		return
	}
	summary, err := s.svc.Summary.DaySummary(r.Context(), day)
	if err != nil {
		s.fail(w, r, err, "/calendar")
		return
	}
	projects, err := s.svc.Projects.ActiveNames(r.Context())
	if err != nil {
		s.fail(w, r, err, "/calendar")
		return
	}
	s.render(w, r, "day.html", map[string]any{
		"Day":      day,
		"Prev":     day.AddDays(-1),
		"Next":     day.AddDays(1),
		"Entries":  entries,
		"Summary":  summary,
		"Projects": projects,
	})
}

func (s *Server) handleDayReport(w http.ResponseWriter, r *http.Request) {
	day, ok := s.pathDate(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", service.ReportFilename(day)))
	if err := s.svc.Reports.DayReport(r.Context(), day, w); err != nil {
		w.Header().Del("Content-Disposition")
		s.fail(w, r, err, "/day/"+day.String())
	}
}

func (s *Server) handleEditEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	entry, err := s.svc.Entries.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}
	projects, err := s.svc.Projects.ActiveNames(r.Context())
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}
	s.render(w, r, "edit_entry.html", map[string]any{
		"Entry":    entry,
		"Projects": projects,
	})
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	input := service.EntryInput{
		Content:   r.FormValue("content"),
		Project:   r.FormValue("project"),
		Timestamp: r.FormValue("timestamp"),
	}
	entry, err := s.svc.Entries.Update(r.Context(), id, input)
	if err != nil {
		s.fail(w, r, err, fmt.Sprintf("/edit/%d", id))
		return
	}
	setFlash(w, flashSuccess, "Entry updated.")
	http.Redirect(w, r, "/day/"+entry.Timestamp.Day().String(), http.StatusSeeOther)
}

// calendarDay is one cell of the month grid.
type calendarDay struct {
	Date       model.Date
	InMonth    bool
	HasEntries bool
	IsToday    bool
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	today := s.today()
	first := model.NewDate(time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC))
	if raw := r.URL.Query().Get("month"); raw != "" {
		t, err := time.Parse("2006-01", raw)
		if err != nil {
			http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
			return
		}
		first = model.NewDate(t)
	}
	last := first.AddDays(daysIn(first) - 1)

	days, err := s.svc.Entries.DaysWithEntries(r.Context(), first, last)
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}
	marked := make(map[string]bool, len(days))
	for _, d := range days {
		marked[d.String()] = true
	}

	s.render(w, r, "calendar.html", map[string]any{
		"Month":     first,
		"PrevMonth": first.AddDate(0, -1, 0).Format("2006-01"),
		"NextMonth": first.AddDate(0, 1, 0).Format("2006-01"),
		"Weeks":     monthGrid(first, marked, today),
		"Weekdays":  []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
	})
}

// monthGrid lays out the month in Monday-first weeks, padded with the
// neighbouring months' days.
func monthGrid(first model.Date, marked map[string]bool, today model.Date) [][]calendarDay {
	offset := (int(first.Weekday()) + 6) % 7
	cursor := first.AddDays(-offset)
	var weeks [][]calendarDay
	for {
		week := make([]calendarDay, 7)
		for i := range week {
			week[i] = calendarDay{
				Date:       cursor,
				InMonth:    cursor.Month() == first.Month(),
				HasEntries: marked[cursor.String()],
				IsToday:    cursor.Equal(today),
			}
			cursor = cursor.AddDays(1)
		}
		weeks = append(weeks, week)
		if cursor.Month() != first.Month() {
			return weeks
		}
	}
}

func daysIn(first model.Date) int {
	return first.AddDate(0, 1, -1).Day()
}

func (s *Server) pathDate(w http.ResponseWriter, r *http.Request) (model.Date, bool) {
	day, err := model.ParseDate(r.PathValue("date"))
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return model.Date{}, false
	}
	return day, true
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		http.Error(w, "Not found", http.StatusNotFound)
		return 0, false
	}
	return uint(id), true
}
