package dto

import "time"

// Request DTOs

type AssignFixedDayRequest struct {
	PatientName string `json:"patient_name" validate:"required,max=255"`
	Weekday     int    `json:"weekday" validate:"weekday"`     // 0=Monday .. 6=Sunday
	Time        string `json:"time" validate:"required,clock"` // Format: HH:MM
}

// Response DTOs

type FixedDayResponse struct {
	ID          int       `json:"id"`
	PatientName string    `json:"patient_name"`
	Weekday     int       `json:"weekday"`
	WeekdayName string    `json:"weekday_name"`
	Time        string    `json:"time"`
	CreatedAt   time.Time `json:"created_at"`
}

type FixedDayListResponse struct {
	Assignments []FixedDayResponse `json:"assignments"`
	Total       int                `json:"total"`
}
