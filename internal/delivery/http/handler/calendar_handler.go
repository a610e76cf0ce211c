package handler

import (
	"net/http"
	"strconv"

	"clinic-agenda/internal/usecase"
	"clinic-agenda/pkg/response"

	"github.com/gorilla/mux"
)

type CalendarHandler struct {
	calendarUsecase usecase.CalendarUsecase
}

func NewCalendarHandler(calendarUsecase usecase.CalendarUsecase) *CalendarHandler {
	return &CalendarHandler{
		calendarUsecase: calendarUsecase,
	}
}

// GetMonth handles GET /calendar/{year}/{month}
func (h *CalendarHandler) GetMonth(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		response.BadRequest(w, "Invalid year")
		return
	}
	month, err := strconv.Atoi(vars["month"])
	if err != nil {
		response.BadRequest(w, "Invalid month")
		return
	}

	grid, err := h.calendarUsecase.BuildMonth(r.Context(), year, month)
	if err != nil {
		writeScheduleError(w, err, "Failed to build calendar")
		return
	}

	response.Success(w, http.StatusOK, "Calendar retrieved successfully", grid)
}
