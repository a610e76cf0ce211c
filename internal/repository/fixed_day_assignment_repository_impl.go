package repository

import (
	"context"
	"errors"

	"clinic-agenda/internal/domain/entity"
	domainRepo "clinic-agenda/internal/domain/repository"

	"gorm.io/gorm"
)

type fixedDayAssignmentRepository struct {
	db *gorm.DB
}

func NewFixedDayAssignmentRepository(db *gorm.DB) domainRepo.FixedDayAssignmentRepository {
	return &fixedDayAssignmentRepository{db: db}
}

func (r *fixedDayAssignmentRepository) Create(ctx context.Context, assignment *entity.FixedDayAssignment) error {
	return dbFrom(ctx, r.db).Create(assignment).Error
}

func (r *fixedDayAssignmentRepository) FindByPatient(ctx context.Context, patientName string) (*entity.FixedDayAssignment, error) {
	var assignment entity.FixedDayAssignment
	err := dbFrom(ctx, r.db).Where("patient_name = ?", patientName).First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *fixedDayAssignmentRepository) FindAll(ctx context.Context) ([]entity.FixedDayAssignment, error) {
	var assignments []entity.FixedDayAssignment
	err := dbFrom(ctx, r.db).Order("weekday ASC, time ASC, patient_name ASC").Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *fixedDayAssignmentRepository) DeleteByPatient(ctx context.Context, patientName string) (int64, error) {
	result := dbFrom(ctx, r.db).Where("patient_name = ?", patientName).Delete(&entity.FixedDayAssignment{})
	return result.RowsAffected, result.Error
}
