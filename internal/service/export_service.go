package service

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"project-echo/internal/model"
	"project-echo/internal/repository"
)

const (
	entriesCSV       = "journal_entries.csv"
	finishedTodosCSV = "finished_todos.csv"
)

// ExportService bundles entries and finished todos of a date range into a
// zip of CSV files.
type ExportService struct {
	entries *repository.EntryRepository
	todos   *repository.TodoRepository
}

func NewExportService(entries *repository.EntryRepository, todos *repository.TodoRepository) *ExportService {
	return &ExportService{entries: entries, todos: todos}
}

// ExportFilename names the archive for [from, to].
func ExportFilename(from, to model.Date) string {
	return fmt.Sprintf("project_echo_export_%s_to_%s.zip", from, to)
}

// Export writes the archive for [from, to], both ends inclusive.
func (s *ExportService) Export(ctx context.Context, from, to model.Date, w io.Writer) error {
	if to.Before(from) {
		return invalidf("end date %s is before start date %s", to, from)
	}
	entries, err := s.entries.ListRange(ctx, from, to)
	if err != nil {
		return err
	}
	todos, err := s.todos.ListFinished(ctx, from, to)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	entryRows := [][]string{{"Timestamp", "Project", "Content"}}
	for _, e := range entries {
		entryRows = append(entryRows, []string{e.Timestamp.String(), e.ProjectLabel(), e.Content})
	}
	if err := writeCSV(zw, entriesCSV, entryRows); err != nil {
		return err
	}

	todoRows := [][]string{{"Finished Date", "Project", "Task", "Started", "Due", "Priority"}}
	for _, t := range todos {
		todoRows = append(todoRows, []string{
			dateCell(t.FinishedDate),
			t.Project,
			t.Item,
			dateCell(t.StartDate),
			dateCell(t.DueDate),
			string(t.Priority),
		})
	}
	if err := writeCSV(zw, finishedTodosCSV, todoRows); err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close export archive: %w", err)
	}
	return nil
}

func writeCSV(zw *zip.Writer, name string, rows [][]string) error {
	f, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	cw := csv.NewWriter(f)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func dateCell(d *model.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
