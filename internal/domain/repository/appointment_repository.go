package repository

import (
	"context"
	"time"

	"clinic-agenda/internal/domain/entity"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindByDate(ctx context.Context, date time.Time) ([]entity.Appointment, error)
	// FindInRange returns appointments dated in [from, to), ordered by date then time.
	FindInRange(ctx context.Context, from, to time.Time) ([]entity.Appointment, error)
	FindByPatientInRange(ctx context.Context, patientName string, from, to time.Time) ([]entity.Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
}
