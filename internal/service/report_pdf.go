package service

import (
	"context"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"project-echo/internal/model"
	"project-echo/internal/repository"
)

// ReportService renders printable day reports.
type ReportService struct {
	entries *repository.EntryRepository
	summary *SummaryService
}

func NewReportService(entries *repository.EntryRepository, summary *SummaryService) *ReportService {
	return &ReportService{entries: entries, summary: summary}
}

// ReportFilename names the PDF for day.
func ReportFilename(day model.Date) string {
	return fmt.Sprintf("journal_%s.pdf", day)
}

// DayReport writes a PDF listing the day's entries with elapsed minutes,
// followed by the per-project totals.
func (s *ReportService) DayReport(ctx context.Context, day model.Date, w io.Writer) error {
	entries, err := s.entries.ListForDay(ctx, day)
	if err != nil {
		return err
	}
	sum, err := s.summary.DaySummary(ctx, day)
	if err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Journal: %s", day))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Entries")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	if len(entries) == 0 {
		pdf.Cell(0, 8, "  - No entries.")
		pdf.Ln(8)
	}
	for _, e := range entries {
		line := fmt.Sprintf("[%s] %s", e.Timestamp.Clock(), e.Content)
		if p := e.ProjectLabel(); p != "" {
			line = fmt.Sprintf("[%s] #%s %s", e.Timestamp.Clock(), p, e.Content)
		}
		if e.DurationMinutes != nil {
			line += fmt.Sprintf("  (+%s)", FormatMinutes(*e.DurationMinutes))
		}
		pdf.MultiCell(0, 7, tr(line), "", "", false)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Time per project")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	for _, p := range sum.Projects {
		pdf.Cell(90, 7, tr(ProjectLabel(p.Project)))
		pdf.Cell(0, 7, FormatMinutes(p.Minutes))
		pdf.Ln(7)
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(90, 8, "Total")
	pdf.Cell(0, 8, FormatMinutes(sum.Total))
	pdf.Ln(8)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render report for %s: %w", day, err)
	}
	return nil
}

// FormatMinutes renders minutes as "1h 05m" or "42m".
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

// ProjectLabel names the bucket of entries without a project.
func ProjectLabel(project string) string {
	if project == "" {
		return "(no project)"
	}
	return project
}
