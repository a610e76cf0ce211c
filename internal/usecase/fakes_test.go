package usecase

import (
	"context"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"clinic-agenda/internal/domain/entity"
	"clinic-agenda/internal/domain/schedule"
	"clinic-agenda/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fakeAppointmentRepo is a map-backed AppointmentRepository safe for concurrent use.
type fakeAppointmentRepo struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]entity.Appointment
	creates int

	// failCreateAfter makes Create fail once that many rows were created; 0 disables it.
	failCreateAfter int
	createErr       error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{byID: make(map[uuid.UUID]entity.Appointment)}
}

func (r *fakeAppointmentRepo) seed(patient string, date time.Time, at string) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.byID[id] = entity.Appointment{ID: id, PatientName: patient, Date: date, Time: at}
	return id
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *entity.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreateAfter > 0 && r.creates >= r.failCreateAfter {
		return r.createErr
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	r.byID[a.ID] = *a
	r.creates++
	return nil
}

func (r *fakeAppointmentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *fakeAppointmentRepo) FindByDate(_ context.Context, date time.Time) ([]entity.Appointment, error) {
	return r.filter(func(a entity.Appointment) bool {
		return schedule.FormatDate(a.Date) == schedule.FormatDate(date)
	}), nil
}

func (r *fakeAppointmentRepo) FindInRange(_ context.Context, from, to time.Time) ([]entity.Appointment, error) {
	return r.filter(func(a entity.Appointment) bool {
		return !a.Date.Before(from) && a.Date.Before(to)
	}), nil
}

func (r *fakeAppointmentRepo) FindByPatientInRange(_ context.Context, name string, from, to time.Time) ([]entity.Appointment, error) {
	return r.filter(func(a entity.Appointment) bool {
		return a.PatientName == name && !a.Date.Before(from) && a.Date.Before(to)
	}), nil
}

func (r *fakeAppointmentRepo) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return 0, nil
	}
	delete(r.byID, id)
	return 1, nil
}

func (r *fakeAppointmentRepo) DeleteByIDs(_ context.Context, ids []uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := r.byID[id]; ok {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeAppointmentRepo) filter(keep func(entity.Appointment) bool) []entity.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Appointment{}
	for _, a := range r.byID {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Time < out[j].Time
	})
	return out
}

func (r *fakeAppointmentRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[uuid.UUID]entity.Appointment, len(r.byID))
	for k, v := range r.byID {
		saved[k] = v
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.byID = saved
	}
}

func (r *fakeAppointmentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

type fakeAssignmentRepo struct {
	mu        sync.Mutex
	byPatient map[string]entity.FixedDayAssignment
	nextID    int
	createErr error
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{byPatient: make(map[string]entity.FixedDayAssignment)}
}

func (r *fakeAssignmentRepo) Create(_ context.Context, a *entity.FixedDayAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	a.ID = r.nextID
	r.byPatient[a.PatientName] = *a
	return nil
}

func (r *fakeAssignmentRepo) FindByPatient(_ context.Context, name string) (*entity.FixedDayAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byPatient[name]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *fakeAssignmentRepo) FindAll(_ context.Context) ([]entity.FixedDayAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.FixedDayAssignment, 0, len(r.byPatient))
	for _, a := range r.byPatient {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PatientName < out[j].PatientName })
	return out, nil
}

func (r *fakeAssignmentRepo) DeleteByPatient(_ context.Context, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byPatient[name]; !ok {
		return 0, nil
	}
	delete(r.byPatient, name)
	return 1, nil
}

func (r *fakeAssignmentRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[string]entity.FixedDayAssignment, len(r.byPatient))
	for k, v := range r.byPatient {
		saved[k] = v
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.byPatient = saved
	}
}

type fakeAuditRepo struct {
	mu        sync.Mutex
	logs      []entity.AuditLog
	createErr error
}

func (r *fakeAuditRepo) Create(_ context.Context, l *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	l.ID = int64(len(r.logs) + 1)
	r.logs = append(r.logs, *l)
	return nil
}

func (r *fakeAuditRepo) FindRecent(_ context.Context, limit int) ([]entity.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.AuditLog, 0, len(r.logs))
	for i := len(r.logs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.logs[i])
	}
	return out, nil
}

func (r *fakeAuditRepo) FindByID(_ context.Context, id int64) (*entity.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.logs {
		if r.logs[i].ID == id {
			l := r.logs[i]
			return &l, nil
		}
	}
	return nil, nil
}

func (r *fakeAuditRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.logs))
	for i, l := range r.logs {
		out[i] = l.Action
	}
	return out
}

func (r *fakeAuditRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := append([]entity.AuditLog(nil), r.logs...)
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.logs = saved
	}
}

type snapshotter interface {
	snapshot() (restore func())
}

// fakeTransactor runs transactions one at a time and restores every
// registered store when fn fails.
type fakeTransactor struct {
	mu     sync.Mutex
	stores []snapshotter
}

func newFakeTransactor(stores ...snapshotter) *fakeTransactor {
	return &fakeTransactor{stores: stores}
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	restores := make([]func(), 0, len(t.stores))
	for _, s := range t.stores {
		restores = append(restores, s.snapshot())
	}

	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

type bookingFixture struct {
	usecase      BookingUsecase
	appointments *fakeAppointmentRepo
	assignments  *fakeAssignmentRepo
	audit        *fakeAuditRepo
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	log := quietLogger()

	appointments := newFakeAppointmentRepo()
	assignments := newFakeAssignmentRepo()
	audit := &fakeAuditRepo{}

	locks := service.NewDateLockService(nil, log, time.Second)
	t.Cleanup(locks.Stop)

	uc := NewBookingUsecase(
		log,
		newFakeTransactor(appointments, audit),
		appointments,
		service.NewFixedDayPolicy(assignments),
		locks,
		service.NewAuditService(log, audit),
		schedule.DefaultSlotClock(),
	)

	return &bookingFixture{
		usecase:      uc,
		appointments: appointments,
		assignments:  assignments,
		audit:        audit,
	}
}
