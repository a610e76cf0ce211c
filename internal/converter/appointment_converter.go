package converter

import (
	"clinic-agenda/internal/delivery/dto"
	"clinic-agenda/internal/domain/entity"
	"clinic-agenda/internal/domain/schedule"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:          appointment.ID,
		PatientName: appointment.PatientName,
		Date:        schedule.FormatDate(appointment.Date),
		Time:        appointment.Time,
		CreatedAt:   appointment.CreatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

// AppointmentsToBookings drops rows whose stored time no longer parses.
func AppointmentsToBookings(appointments []entity.Appointment) []schedule.Booking {
	bookings := make([]schedule.Booking, 0, len(appointments))
	for _, a := range appointments {
		at, err := schedule.ParseClock(a.Time)
		if err != nil {
			continue
		}
		bookings = append(bookings, schedule.Booking{
			ID:      a.ID.String(),
			Patient: a.PatientName,
			Date:    a.Date,
			Time:    at,
		})
	}
	return bookings
}
