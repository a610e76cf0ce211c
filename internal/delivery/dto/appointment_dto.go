package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// BookAppointmentRequest books one slot, or every matching weekday of the month when Recurring is set.
type BookAppointmentRequest struct {
	PatientName string `json:"patient_name" validate:"required,max=255"`
	Date        string `json:"date" validate:"required,date"`  // Format: YYYY-MM-DD
	Time        string `json:"time" validate:"required,clock"` // Format: HH:MM
	Recurring   bool   `json:"recurring"`
	Weekday     *int   `json:"weekday,omitempty" validate:"omitempty,weekday"` // 0=Monday .. 6=Sunday
}

type SlotSelection struct {
	Date string `json:"date" validate:"required,date"`
	Time string `json:"time" validate:"required,clock"`
}

// CancelByPatientRequest removes a patient's appointments in one month.
// An empty Selections list removes all of them.
type CancelByPatientRequest struct {
	PatientName string          `json:"patient_name" validate:"required,max=255"`
	Year        int             `json:"year" validate:"required,min=1,max=9999"`
	Month       int             `json:"month" validate:"required,min=1,max=12"`
	Selections  []SlotSelection `json:"selections,omitempty" validate:"omitempty,dive"`
}

// Response DTOs

type AppointmentResponse struct {
	ID          uuid.UUID `json:"id"`
	PatientName string    `json:"patient_name"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	CreatedAt   time.Time `json:"created_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type OccurrenceResponse struct {
	Date          string     `json:"date"`
	Booked        bool       `json:"booked"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	Reason        string     `json:"reason,omitempty"`
}

type RecurringBookingResponse struct {
	Weekday     int                  `json:"weekday"`
	Year        int                  `json:"year"`
	Month       int                  `json:"month"`
	Succeeded   int                  `json:"succeeded"`
	Failed      int                  `json:"failed"`
	Occurrences []OccurrenceResponse `json:"occurrences"`
}

type CancelResultResponse struct {
	Removed int64 `json:"removed"`
}

type SlotListResponse struct {
	Date      string   `json:"date"`
	Duration  int      `json:"duration_minutes"`
	Slots     []string `json:"slots"`
	Available []string `json:"available"`
}
