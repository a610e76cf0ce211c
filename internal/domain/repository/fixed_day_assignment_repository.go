package repository

import (
	"context"

	"clinic-agenda/internal/domain/entity"
)

type FixedDayAssignmentRepository interface {
	Create(ctx context.Context, assignment *entity.FixedDayAssignment) error
	FindByPatient(ctx context.Context, patientName string) (*entity.FixedDayAssignment, error)
	FindAll(ctx context.Context) ([]entity.FixedDayAssignment, error)
	DeleteByPatient(ctx context.Context, patientName string) (int64, error)
}
