package repository

import (
	"context"
	"errors"

	"clinic-agenda/internal/domain/entity"
	domainRepo "clinic-agenda/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type operatorRepository struct {
	db *gorm.DB
}

func NewOperatorRepository(db *gorm.DB) domainRepo.OperatorRepository {
	return &operatorRepository{db: db}
}

func (r *operatorRepository) Create(ctx context.Context, operator *entity.Operator) error {
	return dbFrom(ctx, r.db).Create(operator).Error
}

func (r *operatorRepository) FindByUsername(ctx context.Context, username string) (*entity.Operator, error) {
	var operator entity.Operator
	err := dbFrom(ctx, r.db).Where("username = ?", username).First(&operator).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &operator, nil
}

func (r *operatorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Operator, error) {
	var operator entity.Operator
	err := dbFrom(ctx, r.db).Where("id = ?", id).First(&operator).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &operator, nil
}
