package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-agenda/internal/converter"
	"clinic-agenda/internal/delivery/dto"
	"clinic-agenda/internal/domain/entity"
	"clinic-agenda/internal/domain/repository"
	"clinic-agenda/internal/domain/schedule"
	"clinic-agenda/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Reasons reported for a recurring occurrence that was not booked.
const (
	ReasonSlotUnavailable   = "slot_unavailable"
	ReasonFixedDayViolation = "fixed_day_violation"
	ReasonDateLocked        = "date_locked"
)

type BookingUsecase interface {
	Book(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	BookRecurring(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.RecurringBookingResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) error
	CancelByPatient(ctx context.Context, req *dto.CancelByPatientRequest) (*dto.CancelResultResponse, error)
	GetDayAppointments(ctx context.Context, date string) (*dto.AppointmentListResponse, error)
	GetMonthAppointments(ctx context.Context, year, month int, patientName string) (*dto.AppointmentListResponse, error)
	GetAvailableSlots(ctx context.Context, date string) (*dto.SlotListResponse, error)
}

type bookingUsecase struct {
	log             *logrus.Logger
	transactor      repository.Transactor
	appointmentRepo repository.AppointmentRepository
	policy          service.FixedDayPolicy
	locker          service.DateLocker
	auditService    service.AuditService
	clock           schedule.SlotClock
}

func NewBookingUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	appointmentRepo repository.AppointmentRepository,
	policy service.FixedDayPolicy,
	locker service.DateLocker,
	auditService service.AuditService,
	clock schedule.SlotClock,
) BookingUsecase {
	return &bookingUsecase{
		log:             log,
		transactor:      transactor,
		appointmentRepo: appointmentRepo,
		policy:          policy,
		locker:          locker,
		auditService:    auditService,
		clock:           clock,
	}
}

// Book registers a single appointment.
//
// Flow:
// 1. Reject times that do not fit inside opening hours
// 2. Take the per-date lock so the read below stays valid until the insert
// 3. Fixed-day gate
// 4. Overlap check against the date's appointments
// 5. Insert together with its audit row
func (u *bookingUsecase) Book(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	at, err := parseClock(req.Time)
	if err != nil {
		return nil, err
	}
	if !u.clock.Fits(at) {
		return nil, ErrSlotOutsideHours
	}

	appointment, err := u.bookOne(ctx, req.PatientName, date, at)
	if err != nil {
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

// BookRecurring books the requested weekday on every matching date of the month of req.Date.
// Occurrences are independent: a rejected or busy date does not undo the ones already booked
// and does not stop the later ones. A storage failure stops the loop and is returned together with the outcomes so far.
func (u *bookingUsecase) BookRecurring(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.RecurringBookingResponse, error) {
	if req.Weekday == nil {
		return nil, ErrInvalidWeekday
	}
	weekday := schedule.Weekday(*req.Weekday)
	if !weekday.Valid() {
		return nil, ErrInvalidWeekday
	}

	anchor, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	at, err := parseClock(req.Time)
	if err != nil {
		return nil, err
	}
	if !u.clock.Fits(at) {
		return nil, ErrSlotOutsideHours
	}

	result := &dto.RecurringBookingResponse{
		Weekday:     int(weekday),
		Year:        anchor.Year(),
		Month:       int(anchor.Month()),
		Occurrences: []dto.OccurrenceResponse{},
	}

	for _, date := range schedule.Expand(weekday, anchor.Year(), anchor.Month()) {
		outcome := dto.OccurrenceResponse{Date: schedule.FormatDate(date)}

		appointment, err := u.bookOne(ctx, req.PatientName, date, at)
		switch {
		case err == nil:
			outcome.Booked = true
			outcome.AppointmentID = &appointment.ID
			result.Succeeded++
		case errors.Is(err, ErrSlotUnavailable):
			outcome.Reason = ReasonSlotUnavailable
			result.Failed++
		case errors.Is(err, ErrFixedDayViolation):
			outcome.Reason = ReasonFixedDayViolation
			result.Failed++
		case errors.Is(err, service.ErrDateLocked):
			outcome.Reason = ReasonDateLocked
			result.Failed++
		default:
			return result, err
		}

		result.Occurrences = append(result.Occurrences, outcome)
	}

	u.log.Infof("Recurring booking for %s on %s: %d booked, %d rejected", req.PatientName, weekday, result.Succeeded, result.Failed)
	return result, nil
}

func (u *bookingUsecase) bookOne(ctx context.Context, patientName string, date time.Time, at schedule.Clock) (*entity.Appointment, error) {
	unlock, err := u.locker.Lock(ctx, date)
	if err != nil {
		u.log.Warnf("Failed to lock %s: %+v", schedule.FormatDate(date), err)
		return nil, err
	}
	defer unlock()

	decision, err := u.policy.Evaluate(ctx, patientName, date, at)
	if err != nil {
		u.log.Warnf("Failed to evaluate fixed day policy for %s: %+v", patientName, err)
		return nil, err
	}
	if !decision.Allowed {
		violation := &FixedDayViolationError{
			PatientName: patientName,
			Weekday:     decision.Slot.Weekday,
			Time:        decision.Slot.Time,
		}
		u.log.Infof("Rejected %s on %s %s: %v", patientName, schedule.FormatDate(date), at, violation)
		return nil, violation
	}

	existing, err := u.appointmentRepo.FindByDate(ctx, date)
	if err != nil {
		u.log.Warnf("Failed to find appointments on %s: %+v", schedule.FormatDate(date), err)
		return nil, err
	}

	if conflict, found := schedule.FirstConflict(at, u.clock.Duration, startsOf(existing)); found {
		u.log.Infof("Rejected %s on %s %s: overlaps %s", patientName, schedule.FormatDate(date), at, conflict)
		return nil, fmt.Errorf("%w: %s is taken by the appointment at %s", ErrSlotUnavailable, at, conflict)
	}

	appointment := &entity.Appointment{
		PatientName: patientName,
		Date:        date,
		Time:        at.String(),
	}
	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, operatorFromContext(ctx), entity.AuditActionAppointmentBook,
			"appointment", appointment.ID.String(), converter.AppointmentToResponse(appointment))
	})
	if err != nil {
		if isDuplicateKeyError(err, "uq_appointments_date_time") {
			return nil, fmt.Errorf("%w: %s is already booked", ErrSlotUnavailable, at)
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	u.log.Infof("Appointment booked: id=%s, patient=%s, date=%s, time=%s", appointment.ID, patientName, schedule.FormatDate(date), appointment.Time)
	return appointment, nil
}

// Cancel removes one appointment. No re-validation is done.
func (u *bookingUsecase) Cancel(ctx context.Context, id uuid.UUID) error {
	appointment, err := u.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	return u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		removed, err := u.appointmentRepo.Delete(ctx, id)
		if err != nil {
			u.log.Warnf("Failed to delete appointment %s: %+v", id, err)
			return err
		}
		if removed == 0 {
			return ErrAppointmentNotFound
		}

		return u.auditService.LogDelete(ctx, operatorFromContext(ctx), entity.AuditActionAppointmentCancel,
			"appointment", id.String(), converter.AppointmentToResponse(appointment))
	})
}

// CancelByPatient removes the patient's appointments in a month, or only the selected ones.
// Selections that match nothing are ignored.
func (u *bookingUsecase) CancelByPatient(ctx context.Context, req *dto.CancelByPatientRequest) (*dto.CancelResultResponse, error) {
	first, next, err := monthRange(req.Year, req.Month)
	if err != nil {
		return nil, err
	}

	type slotKey struct {
		date string
		at   schedule.Clock
	}
	selected := make(map[slotKey]struct{}, len(req.Selections))
	for _, s := range req.Selections {
		date, err := parseDate(s.Date)
		if err != nil {
			return nil, err
		}
		at, err := parseClock(s.Time)
		if err != nil {
			return nil, err
		}
		selected[slotKey{schedule.FormatDate(date), at}] = struct{}{}
	}

	appointments, err := u.appointmentRepo.FindByPatientInRange(ctx, req.PatientName, first, next)
	if err != nil {
		u.log.Warnf("Failed to find appointments of %s: %+v", req.PatientName, err)
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(appointments))
	for _, a := range appointments {
		if len(selected) > 0 {
			at, err := schedule.ParseClock(a.Time)
			if err != nil {
				continue
			}
			if _, ok := selected[slotKey{schedule.FormatDate(a.Date), at}]; !ok {
				continue
			}
		}
		ids = append(ids, a.ID)
	}

	var removed int64
	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		n, err := u.appointmentRepo.DeleteByIDs(ctx, ids)
		if err != nil {
			u.log.Warnf("Failed to delete appointments of %s: %+v", req.PatientName, err)
			return err
		}
		removed = n
		if removed == 0 {
			return nil
		}

		return u.auditService.LogDelete(ctx, operatorFromContext(ctx), entity.AuditActionPatientCancel,
			"appointment", req.PatientName, map[string]interface{}{
				"year":    req.Year,
				"month":   req.Month,
				"removed": removed,
			})
	})
	if err != nil {
		return nil, err
	}

	return &dto.CancelResultResponse{Removed: removed}, nil
}

func (u *bookingUsecase) GetDayAppointments(ctx context.Context, date string) (*dto.AppointmentListResponse, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindByDate(ctx, day)
	if err != nil {
		u.log.Warnf("Failed to find appointments on %s: %+v", date, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// GetMonthAppointments lists a month ordered by date and time, optionally for one patient.
func (u *bookingUsecase) GetMonthAppointments(ctx context.Context, year, month int, patientName string) (*dto.AppointmentListResponse, error) {
	first, next, err := monthRange(year, month)
	if err != nil {
		return nil, err
	}

	var appointments []entity.Appointment
	if patientName != "" {
		appointments, err = u.appointmentRepo.FindByPatientInRange(ctx, patientName, first, next)
	} else {
		appointments, err = u.appointmentRepo.FindInRange(ctx, first, next)
	}
	if err != nil {
		u.log.Warnf("Failed to find appointments in %04d-%02d: %+v", year, month, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// GetAvailableSlots reports the day's grid and the starts on it that are still free.
func (u *bookingUsecase) GetAvailableSlots(ctx context.Context, date string) (*dto.SlotListResponse, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	existing, err := u.appointmentRepo.FindByDate(ctx, day)
	if err != nil {
		u.log.Warnf("Failed to find appointments on %s: %+v", date, err)
		return nil, err
	}
	starts := startsOf(existing)

	slots := u.clock.Slots()
	resp := &dto.SlotListResponse{
		Date:      schedule.FormatDate(day),
		Duration:  int(u.clock.Duration / time.Minute),
		Slots:     make([]string, 0, len(slots)),
		Available: make([]string, 0, len(slots)),
	}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, s.String())
		if !schedule.HasConflict(s, u.clock.Duration, starts) {
			resp.Available = append(resp.Available, s.String())
		}
	}

	return resp, nil
}

// startsOf skips rows whose stored time does not parse.
func startsOf(appointments []entity.Appointment) []schedule.Clock {
	starts := make([]schedule.Clock, 0, len(appointments))
	for _, a := range appointments {
		if c, err := schedule.ParseClock(a.Time); err == nil {
			starts = append(starts, c)
		}
	}
	return starts
}
