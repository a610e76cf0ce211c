package handler

import (
	"net/http"
	"strconv"

	"clinic-agenda/internal/delivery/dto"
	"clinic-agenda/internal/usecase"
	"clinic-agenda/pkg/response"
	"clinic-agenda/pkg/validator"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	bookingUsecase usecase.BookingUsecase
	validator      *validator.CustomValidator
}

func NewAppointmentHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

// ListAppointments lists one day (?date=) or one month (?year=&month=[&patient=])
// @Summary List appointments
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param date query string false "YYYY-MM-DD"
// @Param year query int false "Year"
// @Param month query int false "Month"
// @Param patient query string false "Patient name"
// @Success 200 {object} response.Response
// @Router /appointments [get]
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if date := q.Get("date"); date != "" {
		appointments, err := h.bookingUsecase.GetDayAppointments(r.Context(), date)
		if err != nil {
			writeScheduleError(w, err, "Failed to get appointments")
			return
		}
		response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
		return
	}

	year, errYear := strconv.Atoi(q.Get("year"))
	month, errMonth := strconv.Atoi(q.Get("month"))
	if errYear != nil || errMonth != nil {
		response.BadRequest(w, "Either date or year and month are required")
		return
	}

	appointments, err := h.bookingUsecase.GetMonthAppointments(r.Context(), year, month, q.Get("patient"))
	if err != nil {
		writeScheduleError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// GetAvailableSlots handles GET /appointments/slots?date=
func (h *AppointmentHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		response.BadRequest(w, "date is required")
		return
	}

	slots, err := h.bookingUsecase.GetAvailableSlots(r.Context(), date)
	if err != nil {
		writeScheduleError(w, err, "Failed to get available slots")
		return
	}

	response.Success(w, http.StatusOK, "Slots retrieved successfully", slots)
}

// BookAppointment books one appointment, or a whole month of one weekday when recurring is set
// @Summary Book appointment
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.BookAppointmentRequest true "Booking Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if req.Recurring {
		result, err := h.bookingUsecase.BookRecurring(r.Context(), &req)
		if err != nil {
			if result != nil {
				response.Error(w, http.StatusInternalServerError, "Recurring booking stopped early", result)
				return
			}
			writeScheduleError(w, err, "Failed to book recurring appointments")
			return
		}

		message := "Recurring appointments booked"
		if result.Failed > 0 {
			message = strconv.Itoa(result.Succeeded) + " booked, " + strconv.Itoa(result.Failed) + " rejected"
		}
		response.Success(w, http.StatusCreated, message, result)
		return
	}

	appointment, err := h.bookingUsecase.Book(r.Context(), &req)
	if err != nil {
		writeScheduleError(w, err, "Failed to book appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

// CancelAppointment handles DELETE /appointments/{id}
func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	if err := h.bookingUsecase.Cancel(r.Context(), id); err != nil {
		writeScheduleError(w, err, "Failed to cancel appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", nil)
}

// CancelByPatient handles POST /appointments/cancel-by-patient
func (h *AppointmentHandler) CancelByPatient(w http.ResponseWriter, r *http.Request) {
	var req dto.CancelByPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.bookingUsecase.CancelByPatient(r.Context(), &req)
	if err != nil {
		writeScheduleError(w, err, "Failed to cancel appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments cancelled", result)
}
