package handler

import (
	"net/http"

	"clinic-agenda/internal/delivery/dto"
	"clinic-agenda/internal/usecase"
	"clinic-agenda/pkg/response"
	"clinic-agenda/pkg/validator"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
)

type FixedDayHandler struct {
	fixedDayUsecase usecase.FixedDayUsecase
	validator       *validator.CustomValidator
}

func NewFixedDayHandler(fixedDayUsecase usecase.FixedDayUsecase, validator *validator.CustomValidator) *FixedDayHandler {
	return &FixedDayHandler{
		fixedDayUsecase: fixedDayUsecase,
		validator:       validator,
	}
}

func (h *FixedDayHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.fixedDayUsecase.List(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get fixed day assignments")
		return
	}

	response.Success(w, http.StatusOK, "Fixed day assignments retrieved successfully", assignments)
}

func (h *FixedDayHandler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	assignment, err := h.fixedDayUsecase.Get(r.Context(), mux.Vars(r)["patient"])
	if err != nil {
		writeScheduleError(w, err, "Failed to get fixed day assignment")
		return
	}

	response.Success(w, http.StatusOK, "Fixed day assignment retrieved successfully", assignment)
}

// AssignFixedDay handles POST /fixed-assignments
// @Summary Assign fixed weekday
// @Tags FixedDays
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.AssignFixedDayRequest true "Assignment"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /fixed-assignments [post]
func (h *FixedDayHandler) AssignFixedDay(w http.ResponseWriter, r *http.Request) {
	var req dto.AssignFixedDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	assignment, err := h.fixedDayUsecase.Assign(r.Context(), &req)
	if err != nil {
		writeScheduleError(w, err, "Failed to assign fixed day")
		return
	}

	response.Success(w, http.StatusCreated, "Fixed day assigned successfully", assignment)
}

func (h *FixedDayHandler) RemoveAssignment(w http.ResponseWriter, r *http.Request) {
	if err := h.fixedDayUsecase.Remove(r.Context(), mux.Vars(r)["patient"]); err != nil {
		writeScheduleError(w, err, "Failed to remove fixed day assignment")
		return
	}

	response.Success(w, http.StatusOK, "Fixed day assignment removed successfully", nil)
}
