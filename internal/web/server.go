package web

import (
	"context"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"project-echo/internal/model"
	"project-echo/internal/service"
)

// Services bundles the application services the handlers call.
type Services struct {
	Entries   *service.EntryService
	Todos     *service.TodoService
	Projects  *service.ProjectService
	Recurring *service.RecurrenceService
	Summary   *service.SummaryService
	Export    *service.ExportService
	Reports   *service.ReportService
}

// Options tune the server. Zero values fall back to the local zone, a
// discarding logger and time.Now.
type Options struct {
	Location *time.Location
	Logger   *slog.Logger
	Now      func() time.Time
}

// Server serves the journal web UI.
type Server struct {
	svc  Services
	loc  *time.Location
	log  *slog.Logger
	now  func() time.Time
	tmpl *template.Template
}

func New(svc Services, opts Options) (*Server, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	s := &Server{svc: svc, loc: opts.Location, log: opts.Logger, now: opts.Now, tmpl: tmpl}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Journal
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /{$}", s.handleCreateEntry)
	mux.HandleFunc("GET /calendar", s.handleCalendar)
	mux.HandleFunc("GET /day/{date}", s.handleDay)
	mux.HandleFunc("POST /day/{date}", s.handleCreateDayEntry)
	mux.HandleFunc("GET /day/{date}/report.pdf", s.handleDayReport)
	mux.HandleFunc("GET /edit/{id}", s.handleEditEntry)
	mux.HandleFunc("POST /edit/{id}", s.handleUpdateEntry)

	// Todos
	mux.HandleFunc("GET /todo/{$}", s.handleTodos)
	mux.HandleFunc("POST /todo/{$}", s.handleCreateTodo)
	mux.HandleFunc("GET /todo/{id}/edit", s.handleEditTodo)
	mux.HandleFunc("POST /todo/{id}/edit", s.handleUpdateTodo)
	mux.HandleFunc("POST /todo/{id}/status", s.handleTodoStatus)

	// Projects
	mux.HandleFunc("GET /projects/{$}", s.handleProjects)
	mux.HandleFunc("POST /projects/{$}", s.handleCreateProject)
	mux.HandleFunc("GET /projects/{id}/edit", s.handleEditProject)
	mux.HandleFunc("POST /projects/{id}/edit", s.handleUpdateProject)

	// Recurring templates
	mux.HandleFunc("GET /recurring/{$}", s.handleRecurring)
	mux.HandleFunc("POST /recurring/{$}", s.handleCreateRecurring)
	mux.HandleFunc("GET /recurring/{id}/edit", s.handleEditRecurring)
	mux.HandleFunc("POST /recurring/{id}/edit", s.handleUpdateRecurring)

	// Reporting
	mux.HandleFunc("GET /summary", s.handleSummary)
	mux.HandleFunc("GET /export", s.handleExportForm)
	mux.HandleFunc("POST /export", s.handleExport)

	return loggingMiddleware(s.log, mux)
}

// HTTPServer returns a configured http.Server. Call ListenAndServe on it in a
// goroutine and Shutdown it on exit.
func (s *Server) HTTPServer(addr string) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("http server configured", slog.String("addr", addr))
	return srv
}

func (s *Server) today() model.Date {
	return model.Today(s.now(), s.loc)
}

// fail maps service errors onto responses. Validation problems become a flash
// message on the back page.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, back string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrDuplicateProject):
		setFlash(w, flashError, userMessage(err))
		http.Redirect(w, r, back, http.StatusSeeOther)
	default:
		s.log.Error("request failed",
			slog.String("request_id", requestID(r.Context())),
			slog.String("path", r.URL.Path),
			slog.Any("err", err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func userMessage(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, service.ErrInvalidInput.Error()+": "); i >= 0 {
		msg = msg[i+len(service.ErrInvalidInput.Error())+2:]
	}
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

type ctxKey string

const requestIDKey ctxKey = "request_id"

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware tags every request with an X-Request-ID and logs it.
func loggingMiddleware(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
		log.Info("http request",
			slog.String("id", id),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.String("remote", r.RemoteAddr),
			slog.Duration("dur", time.Since(start)),
		)
	})
}
