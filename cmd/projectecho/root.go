package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"project-echo/internal/config"
	"project-echo/internal/model"
	"project-echo/internal/repository"
	"project-echo/internal/service"
)

var (
	verbose bool
	dbPath  string
)

var rootCmd = &cobra.Command{
	Use:   "projectecho",
	Short: "Project Echo, a personal journal, time tracker and to-do list",
	Long: `projectecho keeps timestamped journal entries, derives the time spent
between them, and manages to-dos including recurring ones.
Settings come from the environment (DATABASE_URL, HTTP_ADDR, TIMEZONE,
RECURRENCE_CHECK_TIME, TELEGRAM_TOKEN, TELEGRAM_CHAT_ID, LOG_LEVEL).`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides DATABASE_URL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(advanceCmd)
	rootCmd.AddCommand(recalcCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(reportCmd)
}

// app is the wired application shared by all sub-commands.
type app struct {
	cfg    config.Config
	log    *slog.Logger
	loc    *time.Location
	db     *gorm.DB
	repos  repos
	svc    services
	closer func()
}

type repos struct {
	entries   *repository.EntryRepository
	todos     *repository.TodoRepository
	recurring *repository.RecurringRepository
	projects  *repository.ProjectRepository
}

type services struct {
	entries   *service.EntryService
	todos     *service.TodoService
	projects  *service.ProjectService
	recurring *service.RecurrenceService
	summary   *service.SummaryService
	export    *service.ExportService
	reports   *service.ReportService
	reminder  *service.ReminderService
}

func newLogger(level slog.Level) *slog.Logger {
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if dbPath != "" {
		cfg.DatabaseURL = dbPath
	}
	logger := newLogger(cfg.LogLevel)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := repository.NewDB(cfg.DatabaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	r := repos{
		entries:   repository.NewEntryRepository(db),
		todos:     repository.NewTodoRepository(db),
		recurring: repository.NewRecurringRepository(db),
		projects:  repository.NewProjectRepository(db),
	}
	summary := service.NewSummaryService(r.entries)
	s := services{
		entries:   service.NewEntryService(db, r.entries, loc),
		todos:     service.NewTodoService(r.todos),
		projects:  service.NewProjectService(r.projects),
		recurring: service.NewRecurrenceService(db, r.recurring, logger),
		summary:   summary,
		export:    service.NewExportService(r.entries, r.todos),
		reports:   service.NewReportService(r.entries, summary),
		reminder:  service.NewReminderService(r.todos, r.recurring, summary),
	}

	a := &app{cfg: cfg, log: logger, loc: loc, db: db, repos: r, svc: s, closer: func() {}}
	if sqlDB, err := db.DB(); err == nil {
		a.closer = func() { _ = sqlDB.Close() }
	}
	return a, nil
}

func (a *app) Close() {
	a.closer()
}

func (a *app) today() model.Date {
	return model.Today(time.Now(), a.loc)
}

// dateFlag parses an optional YYYY-MM-DD flag, falling back to today.
func (a *app) dateFlag(raw string) (model.Date, error) {
	if raw == "" {
		return a.today(), nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return model.Date{}, fmt.Errorf("date %q must be YYYY-MM-DD", raw)
	}
	return d, nil
}
