package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"project-echo/internal/model"
	"project-echo/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"minutes": func(p *int) string {
			if p == nil {
				return ""
			}
			return service.FormatMinutes(*p)
		},
		"total":        service.FormatMinutes,
		"projectLabel": service.ProjectLabel,
		"deref": func(p *string) string {
			if p == nil {
				return ""
			}
			return *p
		},
		"date": func(d *model.Date) string {
			if d == nil {
				return ""
			}
			return d.String()
		},
		"datetimeLocal": func(ts model.Timestamp) string {
			return ts.Format("2006-01-02T15:04:05")
		},
		"title": func(s string) string {
			if len(s) == 0 {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		"eq": func(a, b any) bool {
			return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
		},
		"dict": func(values ...any) map[string]any {
			d := make(map[string]any)
			for i := 0; i < len(values)-1; i += 2 {
				d[fmt.Sprintf("%v", values[i])] = values[i+1]
			}
			return d
		},
	}
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// render executes a page into a buffer first so template errors still yield
// a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["Flash"] = popFlash(w, r)
	data["Today"] = s.today()

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		s.fail(w, r, fmt.Errorf("render %s: %w", name, err), "/")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
