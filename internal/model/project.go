package model

// Project groups entries and todos. Entries and todos reference it by name.
type Project struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"not null;uniqueIndex"`
	IsActive     bool   `gorm:"not null"`
	ChargingCode *string
}
