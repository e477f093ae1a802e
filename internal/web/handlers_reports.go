package web

import (
	"bytes"
	"fmt"
	"net/http"

	"project-echo/internal/model"
	"project-echo/internal/service"
)

// defaultSummaryDays is the window shown when /summary has no range.
const defaultSummaryDays = 7

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	to := s.today()
	from := to.AddDays(-(defaultSummaryDays - 1))
	var err error
	if raw := q.Get("to"); raw != "" {
		if to, err = model.ParseDate(raw); err != nil {
			http.Error(w, "to must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}
	if raw := q.Get("from"); raw != "" {
		if from, err = model.ParseDate(raw); err != nil {
			http.Error(w, "from must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}

	summary, err := s.svc.Summary.RangeSummary(r.Context(), from, to)
	if err != nil {
		s.fail(w, r, err, "/summary")
		return
	}
	s.render(w, r, "summary.html", map[string]any{"Summary": summary})
}

func (s *Server) handleExportForm(w http.ResponseWriter, r *http.Request) {
	today := s.today()
	s.render(w, r, "export.html", map[string]any{
		"From": today.AddDays(-30),
		"To":   today,
	})
}

// handleExport buffers the archive so a failure can still redirect with a
// flash instead of sending a truncated download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	fromRaw, toRaw := r.FormValue("start_date"), r.FormValue("end_date")
	if fromRaw == "" || toRaw == "" {
		setFlash(w, flashError, "Please select both a start and an end date.")
		http.Redirect(w, r, "/export", http.StatusSeeOther)
		return
	}
	from, err := model.ParseDate(fromRaw)
	if err != nil {
		setFlash(w, flashError, "Start date must be YYYY-MM-DD.")
		http.Redirect(w, r, "/export", http.StatusSeeOther)
		return
	}
	to, err := model.ParseDate(toRaw)
	if err != nil {
		setFlash(w, flashError, "End date must be YYYY-MM-DD.")
		http.Redirect(w, r, "/export", http.StatusSeeOther)
		return
	}

	var buf bytes.Buffer
	if err := s.svc.Export.Export(r.Context(), from, to, &buf); err != nil {
		s.fail(w, r, err, "/export")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", service.ExportFilename(from, to)))
	_, _ = buf.WriteTo(w)
}
