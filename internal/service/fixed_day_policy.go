package service

import (
	"context"
	"time"

	"clinic-agenda/internal/domain/entity"
	"clinic-agenda/internal/domain/repository"
	"clinic-agenda/internal/domain/schedule"
)

// PolicyDecision is the outcome of a fixed-day check. Assignment and Slot are set whenever the patient
// has one, so a rejection can tell the operator which weekday and time the patient is bound to.
type PolicyDecision struct {
	Allowed    bool
	Assignment *entity.FixedDayAssignment
	Slot       schedule.StandingSlot
}

// FixedDayPolicy gates bookings of patients that hold a standing weekly reservation.
type FixedDayPolicy interface {
	Evaluate(ctx context.Context, patientName string, date time.Time, at schedule.Clock) (PolicyDecision, error)
}

type fixedDayPolicy struct {
	assignmentRepo repository.FixedDayAssignmentRepository
}

func NewFixedDayPolicy(assignmentRepo repository.FixedDayAssignmentRepository) FixedDayPolicy {
	return &fixedDayPolicy{assignmentRepo: assignmentRepo}
}

func (p *fixedDayPolicy) Evaluate(ctx context.Context, patientName string, date time.Time, at schedule.Clock) (PolicyDecision, error) {
	assignment, err := p.assignmentRepo.FindByPatient(ctx, patientName)
	if err != nil {
		return PolicyDecision{}, err
	}
	if assignment == nil {
		return PolicyDecision{Allowed: true}, nil
	}

	slot, err := StandingSlotOf(assignment)
	if err != nil {
		return PolicyDecision{}, err
	}

	return PolicyDecision{
		Allowed:    slot.Permits(date, at),
		Assignment: assignment,
		Slot:       slot,
	}, nil
}

// StandingSlotOf converts a stored assignment into its schedule form.
func StandingSlotOf(a *entity.FixedDayAssignment) (schedule.StandingSlot, error) {
	at, err := schedule.ParseClock(a.Time)
	if err != nil {
		return schedule.StandingSlot{}, err
	}
	weekday := schedule.Weekday(a.Weekday)
	if !weekday.Valid() {
		return schedule.StandingSlot{}, schedule.ErrInvalidWeekday
	}
	return schedule.StandingSlot{Patient: a.PatientName, Weekday: weekday, Time: at}, nil
}
