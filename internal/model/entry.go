package model

// Entry is a single journal post.
type Entry struct {
	ID        uint      `gorm:"primaryKey"`
	Timestamp Timestamp `gorm:"not null;index"`
	Content   string    `gorm:"not null"`
	Project   *string
	// DurationMinutes is the time since the previous entry of the same day.
	// Nil for the first entry of a day.
	DurationMinutes *int
}

// ProjectLabel returns the project name or an empty string.
func (e Entry) ProjectLabel() string {
	if e.Project == nil {
		return ""
	}
	return *e.Project
}
