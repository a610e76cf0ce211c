package repository

import (
	"context"

	"clinic-agenda/internal/domain/entity"

	"github.com/google/uuid"
)

type OperatorRepository interface {
	Create(ctx context.Context, operator *entity.Operator) error
	FindByUsername(ctx context.Context, username string) (*entity.Operator, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Operator, error)
}
