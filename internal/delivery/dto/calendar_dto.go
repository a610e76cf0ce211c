package dto

// Response DTOs

type CalendarEntryResponse struct {
	AppointmentID string `json:"appointment_id,omitempty"`
	PatientName   string `json:"patient_name"`
	Time          string `json:"time"`
	Fixed         bool   `json:"fixed"`
	Label         string `json:"label"`
}

// CalendarDayResponse is one grid cell. Placeholder cells carry no date and no entries.
type CalendarDayResponse struct {
	Date    string                  `json:"date,omitempty"`
	Day     int                     `json:"day,omitempty"`
	InMonth bool                    `json:"in_month"`
	Entries []CalendarEntryResponse `json:"entries"`
}

type CalendarResponse struct {
	Year     int                     `json:"year"`
	Month    int                     `json:"month"`
	Weekdays []string                `json:"weekdays"`
	Weeks    [][]CalendarDayResponse `json:"weeks"`
}
