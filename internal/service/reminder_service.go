package service

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"

	"project-echo/internal/model"
	"project-echo/internal/repository"
)

// upcomingWindow is how far ahead the digest looks for recurring templates.
const upcomingWindow = 7

// ReminderService builds human-readable summaries for daily notifications.
type ReminderService struct {
	todos     *repository.TodoRepository
	recurring *repository.RecurringRepository
	summary   *SummaryService
}

func NewReminderService(todos *repository.TodoRepository, recurring *repository.RecurringRepository, summary *SummaryService) *ReminderService {
	return &ReminderService{todos: todos, recurring: recurring, summary: summary}
}

// DailyDigest renders the morning digest in Telegram's HTML subset.
func (s *ReminderService) DailyDigest(ctx context.Context, today model.Date) (string, error) {
	active, err := s.todos.ListActive(ctx)
	if err != nil {
		return "", err
	}
	templates, err := s.recurring.List(ctx)
	if err != nil {
		return "", err
	}
	yesterday, err := s.summary.DaySummary(ctx, today.AddDays(-1))
	if err != nil {
		return "", err
	}

	var urgent, pending []model.Todo
	for _, todo := range active {
		if todo.DueDate != nil && !todo.DueDate.After(today) {
			urgent = append(urgent, todo)
			continue
		}
		pending = append(pending, todo)
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return priorityRank(pending[i].Priority) > priorityRank(pending[j].Priority)
	})

	var builder strings.Builder
	builder.WriteString("📋 <b>Daily digest</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", today))

	builder.WriteString("🔥 <b>Due today or overdue</b>\n")
	if len(urgent) == 0 {
		builder.WriteString("  nothing due\n")
	} else {
		for _, todo := range urgent {
			builder.WriteString(formatTodo(todo, today))
		}
	}

	builder.WriteString("\n📝 <b>Other open todos</b>\n")
	if len(pending) == 0 {
		builder.WriteString("  no open todos\n")
	} else {
		for _, todo := range pending {
			builder.WriteString(formatTodo(todo, today))
		}
	}

	var upcoming []model.RecurringTodo
	horizon := today.AddDays(upcomingWindow)
	for _, tmpl := range templates {
		if tmpl.IsActive && tmpl.NextDueDate.After(today) && !tmpl.NextDueDate.After(horizon) {
			upcoming = append(upcoming, tmpl)
		}
	}
	builder.WriteString("\n♻️ <b>Recurring this week</b>\n")
	if len(upcoming) == 0 {
		builder.WriteString("  nothing scheduled\n")
	} else {
		for _, tmpl := range upcoming {
			builder.WriteString(formatRecurring(tmpl))
		}
	}

	builder.WriteString("\n⏱ <b>Tracked yesterday</b>\n")
	if len(yesterday.Projects) == 0 {
		builder.WriteString("  no tracked time\n")
	} else {
		for _, p := range yesterday.Projects {
			builder.WriteString(fmt.Sprintf("• %s: %s\n", html.EscapeString(ProjectLabel(p.Project)), FormatMinutes(p.Minutes)))
		}
		builder.WriteString(fmt.Sprintf("<b>Total:</b> %s\n", FormatMinutes(yesterday.Total)))
	}

	return strings.TrimSpace(builder.String()), nil
}

func priorityRank(p model.Priority) int {
	for i, known := range model.Priorities {
		if p == known {
			return i
		}
	}
	return -1
}

func formatTodo(todo model.Todo, today model.Date) string {
	var sb strings.Builder

	icon := "🟢"
	switch {
	case todo.Overdue(today):
		icon = "⚠️"
	case todo.Priority == model.PriorityHigh:
		icon = "🔴"
	case todo.DueDate != nil && todo.DueDate.Equal(today):
		icon = "⏳"
	}

	sb.WriteString(fmt.Sprintf("%s <code>#%d</code> %s", icon, todo.ID, html.EscapeString(strings.TrimSpace(todo.Item))))
	if project := strings.TrimSpace(todo.Project); project != "" {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(project)))
	}

	if todo.DueDate != nil {
		if todo.Overdue(today) {
			days := int(today.Sub(todo.DueDate.Time).Hours() / 24)
			sb.WriteString(fmt.Sprintf("\n   ⏰ due %s · <b>%d d overdue</b>", todo.DueDate, days))
		} else {
			sb.WriteString(fmt.Sprintf("\n   ⏰ due %s", todo.DueDate))
		}
	}

	sb.WriteByte('\n')
	return sb.String()
}

func formatRecurring(tmpl model.RecurringTodo) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("♻️ %s", html.EscapeString(strings.TrimSpace(tmpl.Item))))
	if project := strings.TrimSpace(tmpl.ProjectLabel()); project != "" {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(project)))
	}
	sb.WriteString(fmt.Sprintf("\n   📆 next %s (%s)", tmpl.NextDueDate, tmpl.RecurrenceType))

	sb.WriteByte('\n')
	return sb.String()
}
