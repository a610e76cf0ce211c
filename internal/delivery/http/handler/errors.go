package handler

import (
	"errors"
	"net/http"

	"clinic-agenda/internal/service"
	"clinic-agenda/internal/usecase"
	"clinic-agenda/pkg/response"
)

// writeScheduleError maps scheduling error kinds to status codes. Anything unknown is a 500 with fallback as message.
func writeScheduleError(w http.ResponseWriter, err error, fallback string) {
	var violation *usecase.FixedDayViolationError

	switch {
	case errors.As(err, &violation):
		response.Conflict(w, violation.Error(), map[string]interface{}{
			"reason":       "fixed_day_violation",
			"weekday":      int(violation.Weekday),
			"weekday_name": violation.Weekday.String(),
			"time":         violation.Time.String(),
		})
	case errors.Is(err, usecase.ErrSlotUnavailable):
		response.Conflict(w, err.Error(), map[string]string{"reason": "slot_unavailable"})
	case errors.Is(err, usecase.ErrDuplicateFixedAssignment):
		response.Conflict(w, err.Error(), map[string]string{"reason": "duplicate_fixed_assignment"})
	case errors.Is(err, service.ErrDateLocked):
		response.Conflict(w, "Date is being booked by another request, try again", map[string]string{"reason": "date_locked"})
	case errors.Is(err, usecase.ErrAppointmentNotFound),
		errors.Is(err, usecase.ErrFixedAssignmentNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, usecase.ErrInvalidInput):
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
