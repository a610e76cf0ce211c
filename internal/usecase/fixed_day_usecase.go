package usecase

import (
	"context"

	"clinic-agenda/internal/converter"
	"clinic-agenda/internal/delivery/dto"
	"clinic-agenda/internal/domain/entity"
	"clinic-agenda/internal/domain/repository"
	"clinic-agenda/internal/domain/schedule"
	"clinic-agenda/internal/service"

	"github.com/sirupsen/logrus"
)

type FixedDayUsecase interface {
	Assign(ctx context.Context, req *dto.AssignFixedDayRequest) (*dto.FixedDayResponse, error)
	Remove(ctx context.Context, patientName string) error
	List(ctx context.Context) (*dto.FixedDayListResponse, error)
	Get(ctx context.Context, patientName string) (*dto.FixedDayResponse, error)
}

type fixedDayUsecase struct {
	log            *logrus.Logger
	transactor     repository.Transactor
	assignmentRepo repository.FixedDayAssignmentRepository
	auditService   service.AuditService
	clock          schedule.SlotClock
}

func NewFixedDayUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	assignmentRepo repository.FixedDayAssignmentRepository,
	auditService service.AuditService,
	clock schedule.SlotClock,
) FixedDayUsecase {
	return &fixedDayUsecase{
		log:            log,
		transactor:     transactor,
		assignmentRepo: assignmentRepo,
		auditService:   auditService,
		clock:          clock,
	}
}

// Assign creates the patient's standing reservation. An existing one is never overwritten.
func (u *fixedDayUsecase) Assign(ctx context.Context, req *dto.AssignFixedDayRequest) (*dto.FixedDayResponse, error) {
	weekday := schedule.Weekday(req.Weekday)
	if !weekday.Valid() {
		return nil, ErrInvalidWeekday
	}
	at, err := parseClock(req.Time)
	if err != nil {
		return nil, err
	}
	if !u.clock.Fits(at) {
		return nil, ErrSlotOutsideHours
	}

	existing, err := u.assignmentRepo.FindByPatient(ctx, req.PatientName)
	if err != nil {
		u.log.Warnf("Failed to find fixed day assignment for %s: %+v", req.PatientName, err)
		return nil, err
	}
	if existing != nil {
		u.log.Infof("Rejected fixed day assignment for %s: already assigned to %s %s", req.PatientName, schedule.Weekday(existing.Weekday), existing.Time)
		return nil, ErrDuplicateFixedAssignment
	}

	assignment := &entity.FixedDayAssignment{
		PatientName: req.PatientName,
		Weekday:     int(weekday),
		Time:        at.String(),
	}
	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.assignmentRepo.Create(ctx, assignment); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, operatorFromContext(ctx), entity.AuditActionFixedDayAssign,
			"fixed_day_assignment", assignment.PatientName, converter.FixedDayToResponse(assignment))
	})
	if err != nil {
		if isDuplicateKeyError(err, "patient_name") {
			return nil, ErrDuplicateFixedAssignment
		}
		u.log.Warnf("Failed to create fixed day assignment: %+v", err)
		return nil, err
	}

	return converter.FixedDayToResponse(assignment), nil
}

func (u *fixedDayUsecase) Remove(ctx context.Context, patientName string) error {
	existing, err := u.assignmentRepo.FindByPatient(ctx, patientName)
	if err != nil {
		u.log.Warnf("Failed to find fixed day assignment for %s: %+v", patientName, err)
		return err
	}
	if existing == nil {
		return ErrFixedAssignmentNotFound
	}

	return u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		removed, err := u.assignmentRepo.DeleteByPatient(ctx, patientName)
		if err != nil {
			u.log.Warnf("Failed to delete fixed day assignment for %s: %+v", patientName, err)
			return err
		}
		if removed == 0 {
			return ErrFixedAssignmentNotFound
		}

		return u.auditService.LogDelete(ctx, operatorFromContext(ctx), entity.AuditActionFixedDayRemove,
			"fixed_day_assignment", patientName, converter.FixedDayToResponse(existing))
	})
}

func (u *fixedDayUsecase) List(ctx context.Context) (*dto.FixedDayListResponse, error) {
	assignments, err := u.assignmentRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to find fixed day assignments: %+v", err)
		return nil, err
	}

	return &dto.FixedDayListResponse{
		Assignments: converter.FixedDaysToResponses(assignments),
		Total:       len(assignments),
	}, nil
}

func (u *fixedDayUsecase) Get(ctx context.Context, patientName string) (*dto.FixedDayResponse, error) {
	assignment, err := u.assignmentRepo.FindByPatient(ctx, patientName)
	if err != nil {
		u.log.Warnf("Failed to find fixed day assignment for %s: %+v", patientName, err)
		return nil, err
	}
	if assignment == nil {
		return nil, ErrFixedAssignmentNotFound
	}

	return converter.FixedDayToResponse(assignment), nil
}
