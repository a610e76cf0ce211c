package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment is one booked slot. The patient is identified only by display name.
type Appointment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientName string    `gorm:"type:varchar(255);not null;index" json:"patient_name"`
	Date        time.Time `gorm:"type:date;not null;uniqueIndex:uq_appointments_date_time,priority:1" json:"date"`
	Time        string    `gorm:"type:varchar(5);not null;uniqueIndex:uq_appointments_date_time,priority:2" json:"time"` // HH:MM
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
