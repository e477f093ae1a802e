package model

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the levels from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

type TodoStatus string

const (
	TodoActive   TodoStatus = "active"
	TodoFinished TodoStatus = "finished"
)

var TodoStatuses = []TodoStatus{TodoActive, TodoFinished}

func (s TodoStatus) Valid() bool {
	for _, known := range TodoStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Todo is a concrete to-do item. FinishedDate is set iff Status is finished.
type Todo struct {
	ID           uint   `gorm:"primaryKey"`
	Project      string `gorm:"index"`
	Item         string `gorm:"not null"`
	StartDate    *Date
	DueDate      *Date
	FinishedDate *Date
	Priority     Priority   `gorm:"not null"`
	Status       TodoStatus `gorm:"not null;index"`
}

// Overdue reports whether an unfinished todo is past its due date.
func (t Todo) Overdue(today Date) bool {
	return t.Status != TodoFinished && t.DueDate != nil && t.DueDate.Before(today)
}
