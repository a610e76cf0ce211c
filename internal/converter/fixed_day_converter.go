package converter

import (
	"clinic-agenda/internal/delivery/dto"
	"clinic-agenda/internal/domain/entity"
	"clinic-agenda/internal/domain/schedule"
)

// FixedDayToResponse converts a FixedDayAssignment entity to FixedDayResponse DTO
func FixedDayToResponse(assignment *entity.FixedDayAssignment) *dto.FixedDayResponse {
	if assignment == nil {
		return nil
	}

	return &dto.FixedDayResponse{
		ID:          assignment.ID,
		PatientName: assignment.PatientName,
		Weekday:     assignment.Weekday,
		WeekdayName: schedule.Weekday(assignment.Weekday).String(),
		Time:        assignment.Time,
		CreatedAt:   assignment.CreatedAt,
	}
}

// FixedDaysToResponses converts a slice of FixedDayAssignment entities to slice of FixedDayResponse DTOs
func FixedDaysToResponses(assignments []entity.FixedDayAssignment) []dto.FixedDayResponse {
	responses := make([]dto.FixedDayResponse, len(assignments))
	for i := range assignments {
		responses[i] = *FixedDayToResponse(&assignments[i])
	}
	return responses
}
