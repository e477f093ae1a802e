package model

type RecurrenceType string

const (
	RecurDaily   RecurrenceType = "daily"
	RecurWeekly  RecurrenceType = "weekly"
	RecurMonthly RecurrenceType = "monthly"
)

var RecurrenceTypes = []RecurrenceType{RecurDaily, RecurWeekly, RecurMonthly}

// RecurringTodo is a template that spawns a Todo each time it comes due.
type RecurringTodo struct {
	ID             uint   `gorm:"primaryKey"`
	Item           string `gorm:"not null"`
	Project        *string
	RecurrenceType RecurrenceType `gorm:"not null"`
	NextDueDate    Date           `gorm:"not null;index"`
	IsActive       bool           `gorm:"not null"`
}

func (r RecurringTodo) ProjectLabel() string {
	if r.Project == nil {
		return ""
	}
	return *r.Project
}
