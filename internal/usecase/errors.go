package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clinic-agenda/internal/delivery/http/middleware"
	"clinic-agenda/internal/domain/schedule"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrInvalidInput is the kind shared by every malformed-request error below.
var ErrInvalidInput = errors.New("invalid input")

var (
	ErrSlotUnavailable          = errors.New("requested time overlaps an existing appointment")
	ErrFixedDayViolation        = errors.New("patient is restricted to a fixed weekday and time")
	ErrDuplicateFixedAssignment = errors.New("patient already has a fixed day assignment")

	ErrInvalidDate             = fmt.Errorf("%w: %v", ErrInvalidInput, schedule.ErrInvalidDate)
	ErrInvalidTime             = fmt.Errorf("%w: %v", ErrInvalidInput, schedule.ErrInvalidClock)
	ErrInvalidWeekday          = fmt.Errorf("%w: %v", ErrInvalidInput, schedule.ErrInvalidWeekday)
	ErrInvalidMonth            = fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	ErrSlotOutsideHours        = fmt.Errorf("%w: appointment must fit inside opening hours", ErrInvalidInput)
	ErrAppointmentNotFound     = fmt.Errorf("%w: appointment not found", ErrInvalidInput)
	ErrFixedAssignmentNotFound = fmt.Errorf("%w: fixed day assignment not found", ErrInvalidInput)
)

// FixedDayViolationError tells the caller which weekday and time the patient is bound to.
type FixedDayViolationError struct {
	PatientName string
	Weekday     schedule.Weekday
	Time        schedule.Clock
}

func (e *FixedDayViolationError) Error() string {
	return fmt.Sprintf("patient %s is fixed to %s at %s", e.PatientName, e.Weekday, e.Time)
}

func (e *FixedDayViolationError) Is(target error) bool {
	return target == ErrFixedDayViolation
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// operatorFromContext returns nil outside an authenticated request.
func operatorFromContext(ctx context.Context) *uuid.UUID {
	id, ok := middleware.GetOperatorIDFromContext(ctx)
	if !ok {
		return nil
	}
	return &id
}

func parseDate(s string) (time.Time, error) {
	d, err := schedule.ParseDate(s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

func parseClock(s string) (schedule.Clock, error) {
	c, err := schedule.ParseClock(s)
	if err != nil {
		return 0, ErrInvalidTime
	}
	return c, nil
}

func monthRange(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	if year < 1 || year > 9999 {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	first, next := schedule.MonthRange(year, time.Month(month))
	return first, next, nil
}
