package usecase

import (
	"context"
	"time"

	"clinic-agenda/internal/converter"
	"clinic-agenda/internal/delivery/dto"
	"clinic-agenda/internal/domain/repository"
	"clinic-agenda/internal/domain/schedule"
	"clinic-agenda/internal/service"

	"github.com/sirupsen/logrus"
)

type CalendarUsecase interface {
	BuildMonth(ctx context.Context, year, month int) (*dto.CalendarResponse, error)
}

type calendarUsecase struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	assignmentRepo  repository.FixedDayAssignmentRepository
}

func NewCalendarUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	assignmentRepo repository.FixedDayAssignmentRepository,
) CalendarUsecase {
	return &calendarUsecase{
		log:             log,
		appointmentRepo: appointmentRepo,
		assignmentRepo:  assignmentRepo,
	}
}

// BuildMonth lays out the month's appointments plus every standing reservation on its weekday.
func (u *calendarUsecase) BuildMonth(ctx context.Context, year, month int) (*dto.CalendarResponse, error) {
	first, next, err := monthRange(year, month)
	if err != nil {
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindInRange(ctx, first, next)
	if err != nil {
		u.log.Warnf("Failed to find appointments in %04d-%02d: %+v", year, month, err)
		return nil, err
	}

	assignments, err := u.assignmentRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to find fixed day assignments: %+v", err)
		return nil, err
	}

	standing := make([]schedule.StandingSlot, 0, len(assignments))
	for i := range assignments {
		slot, err := service.StandingSlotOf(&assignments[i])
		if err != nil {
			u.log.Warnf("Skipping malformed fixed day assignment %d: %+v", assignments[i].ID, err)
			continue
		}
		standing = append(standing, slot)
	}

	grid := schedule.BuildMonthGrid(year, time.Month(month), converter.AppointmentsToBookings(appointments), standing)
	return converter.MonthGridToResponse(grid), nil
}
