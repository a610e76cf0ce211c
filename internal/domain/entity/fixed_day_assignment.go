package entity

import "time"

// FixedDayAssignment restricts a patient to a single weekday and time.
// Weekday is stored Monday-first: 0=Monday .. 6=Sunday.
type FixedDayAssignment struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientName string    `gorm:"type:varchar(255);uniqueIndex:uq_fixed_day_assignments_patient_name;not null" json:"patient_name"`
	Weekday     int       `gorm:"type:smallint;not null" json:"weekday"`
	Time        string    `gorm:"type:varchar(5);not null" json:"time"` // HH:MM
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (FixedDayAssignment) TableName() string {
	return "fixed_day_assignments"
}
