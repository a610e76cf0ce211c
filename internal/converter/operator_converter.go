package converter

import (
	"clinic-agenda/internal/delivery/dto"
	"clinic-agenda/internal/domain/entity"
)

// OperatorToResponse converts an Operator entity to OperatorResponse DTO
func OperatorToResponse(operator *entity.Operator) *dto.OperatorResponse {
	if operator == nil {
		return nil
	}

	return &dto.OperatorResponse{
		ID:        operator.ID,
		Username:  operator.Username,
		IsActive:  operator.IsActive,
		CreatedAt: operator.CreatedAt,
		UpdatedAt: operator.UpdatedAt,
	}
}
