package service

import (
	"context"
	"sort"

	"project-echo/internal/model"
	"project-echo/internal/repository"
)

// ProjectMinutes is the tracked time of one project.
type ProjectMinutes struct {
	Project string
	Minutes int
}

// DaySummary holds per-project totals for a single day.
type DaySummary struct {
	Day      model.Date
	Projects []ProjectMinutes
	Total    int
}

// RangeSummary holds per-day totals plus the grand total per project.
type RangeSummary struct {
	From     model.Date
	To       model.Date
	Days     []DaySummary
	Projects []ProjectMinutes
	Total    int
}

// SummaryService aggregates tracked durations. An entry's duration counts
// toward the entry's own project; entries without one land under "".
type SummaryService struct {
	entries *repository.EntryRepository
}

func NewSummaryService(entries *repository.EntryRepository) *SummaryService {
	return &SummaryService{entries: entries}
}

func (s *SummaryService) DaySummary(ctx context.Context, day model.Date) (DaySummary, error) {
	rs, err := s.RangeSummary(ctx, day, day)
	if err != nil {
		return DaySummary{}, err
	}
	if len(rs.Days) == 0 {
		return DaySummary{Day: day}, nil
	}
	return rs.Days[0], nil
}

func (s *SummaryService) RangeSummary(ctx context.Context, from, to model.Date) (RangeSummary, error) {
	if to.Before(from) {
		return RangeSummary{}, invalidf("range end %s is before start %s", to, from)
	}
	totals, err := s.entries.Totals(ctx, from, to)
	if err != nil {
		return RangeSummary{}, err
	}

	out := RangeSummary{From: from, To: to}
	perProject := make(map[string]int)
	for _, t := range totals {
		day, err := model.ParseDate(t.Day)
		if err != nil {
			return RangeSummary{}, err
		}
		n := len(out.Days)
		if n == 0 || !out.Days[n-1].Day.Equal(day) {
			out.Days = append(out.Days, DaySummary{Day: day})
			n++
		}
		ds := &out.Days[n-1]
		ds.Projects = append(ds.Projects, ProjectMinutes{Project: t.Project, Minutes: t.Minutes})
		ds.Total += t.Minutes
		perProject[t.Project] += t.Minutes
		out.Total += t.Minutes
	}

	for project, minutes := range perProject {
		out.Projects = append(out.Projects, ProjectMinutes{Project: project, Minutes: minutes})
	}
	sort.Slice(out.Projects, func(i, j int) bool {
		if out.Projects[i].Minutes != out.Projects[j].Minutes {
			return out.Projects[i].Minutes > out.Projects[j].Minutes
		}
		return out.Projects[i].Project < out.Projects[j].Project
	})
	return out, nil
}
