package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"clinic-agenda/internal/domain/entity"
	"clinic-agenda/internal/domain/schedule"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeAssignmentRepo struct {
	byPatient map[string]*entity.FixedDayAssignment
	err       error
}

func (r *fakeAssignmentRepo) Create(_ context.Context, a *entity.FixedDayAssignment) error {
	r.byPatient[a.PatientName] = a
	return nil
}

func (r *fakeAssignmentRepo) FindByPatient(_ context.Context, name string) (*entity.FixedDayAssignment, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.byPatient[name], nil
}

func (r *fakeAssignmentRepo) FindAll(_ context.Context) ([]entity.FixedDayAssignment, error) {
	out := make([]entity.FixedDayAssignment, 0, len(r.byPatient))
	for _, a := range r.byPatient {
		out = append(out, *a)
	}
	return out, nil
}

func (r *fakeAssignmentRepo) DeleteByPatient(_ context.Context, name string) (int64, error) {
	if _, ok := r.byPatient[name]; !ok {
		return 0, nil
	}
	delete(r.byPatient, name)
	return 1, nil
}

type fakeAuditRepo struct {
	logs []entity.AuditLog
	err  error
}

func (r *fakeAuditRepo) Create(_ context.Context, l *entity.AuditLog) error {
	if r.err != nil {
		return r.err
	}
	l.ID = int64(len(r.logs) + 1)
	r.logs = append(r.logs, *l)
	return nil
}

func (r *fakeAuditRepo) FindRecent(_ context.Context, limit int) ([]entity.AuditLog, error) {
	return r.logs, nil
}

func (r *fakeAuditRepo) FindByID(_ context.Context, id int64) (*entity.AuditLog, error) {
	for i := range r.logs {
		if r.logs[i].ID == id {
			return &r.logs[i], nil
		}
	}
	return nil, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFixedDayPolicy_NoAssignment(t *testing.T) {
	policy := NewFixedDayPolicy(&fakeAssignmentRepo{byPatient: map[string]*entity.FixedDayAssignment{}})

	decision, err := policy.Evaluate(context.Background(), "Luis", day(2025, time.June, 4), schedule.NewClock(9, 0))
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Nil(t, decision.Assignment)
}

func TestFixedDayPolicy_ExactMatchOnly(t *testing.T) {
	repo := &fakeAssignmentRepo{byPatient: map[string]*entity.FixedDayAssignment{
		"Ana": {PatientName: "Ana", Weekday: int(schedule.Tuesday), Time: "10:00"},
	}}
	policy := NewFixedDayPolicy(repo)
	ctx := context.Background()

	// 2025-06-03 is a Tuesday, 2025-06-04 a Wednesday.
	decision, err := policy.Evaluate(ctx, "Ana", day(2025, time.June, 3), schedule.NewClock(10, 0))
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	decision, err = policy.Evaluate(ctx, "Ana", day(2025, time.June, 4), schedule.NewClock(10, 0))
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	require.NotNil(t, decision.Assignment)
	assert.Equal(t, "10:00", decision.Assignment.Time)

	decision, err = policy.Evaluate(ctx, "Ana", day(2025, time.June, 3), schedule.NewClock(10, 40))
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
}

func TestFixedDayPolicy_RepositoryError(t *testing.T) {
	boom := errors.New("db down")
	policy := NewFixedDayPolicy(&fakeAssignmentRepo{err: boom})

	_, err := policy.Evaluate(context.Background(), "Ana", day(2025, time.June, 3), schedule.NewClock(10, 0))
	assert.ErrorIs(t, err, boom)
}

func TestStandingSlotOf_RejectsBadRows(t *testing.T) {
	_, err := StandingSlotOf(&entity.FixedDayAssignment{PatientName: "Ana", Weekday: 9, Time: "10:00"})
	assert.ErrorIs(t, err, schedule.ErrInvalidWeekday)

	_, err = StandingSlotOf(&entity.FixedDayAssignment{PatientName: "Ana", Weekday: 1, Time: "ten"})
	assert.ErrorIs(t, err, schedule.ErrInvalidClock)
}

func TestDateLockService_SerializesSameDate(t *testing.T) {
	svc := NewDateLockService(nil, quietLogger(), time.Second)
	defer svc.Stop()

	ctx := context.Background()
	date := day(2025, time.June, 3)

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := svc.Lock(ctx, date)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}

func TestDateLockService_DifferentDatesDoNotBlock(t *testing.T) {
	svc := NewDateLockService(nil, quietLogger(), time.Second)
	defer svc.Stop()

	ctx := context.Background()
	unlockA, err := svc.Lock(ctx, day(2025, time.June, 3))
	require.NoError(t, err)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB, err := svc.Lock(ctx, day(2025, time.June, 4))
		if err == nil {
			unlockB()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different date blocked")
	}
}

func TestDateLockService_CleanupSkipsHeldMutex(t *testing.T) {
	svc := NewDateLockService(nil, quietLogger(), time.Second)
	defer svc.Stop()

	ctx := context.Background()
	unlock, err := svc.Lock(ctx, day(2025, time.June, 3))
	require.NoError(t, err)

	released, err := svc.Lock(ctx, day(2025, time.June, 4))
	require.NoError(t, err)
	released()

	cleaned := svc.cleanupStaleMutexes(time.Now().Add(time.Hour))
	assert.Equal(t, 1, cleaned)

	_, stillThere := svc.dateMu.Load("2025-06-03")
	assert.True(t, stillThere)
	unlock()
}

func TestDateLockService_MutexDroppedByCleanupIsNotUsed(t *testing.T) {
	svc := NewDateLockService(nil, quietLogger(), time.Second)
	defer svc.Stop()

	const key = "2025-06-03"
	stale := svc.getDateMutex(key)
	require.Equal(t, 1, svc.cleanupStaleMutexes(time.Now().Add(time.Hour)))

	unlock, err := svc.Lock(context.Background(), day(2025, time.June, 3))
	require.NoError(t, err)

	got := make(chan *mutexWithTimestamp, 1)
	go func() {
		got <- svc.lockDateMutex(key, stale)
	}()

	select {
	case <-got:
		t.Fatal("a mutex dropped from the map was locked while the date is held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()

	var mt *mutexWithTimestamp
	select {
	case mt = <-got:
	case <-time.After(time.Second):
		t.Fatal("lock was not handed over after unlock")
	}
	current, ok := svc.dateMu.Load(key)
	require.True(t, ok)
	assert.Same(t, current, mt)
	assert.NotSame(t, stale, mt)
	mt.mu.Unlock()
}

func TestDateLockService_StopIsIdempotent(t *testing.T) {
	svc := NewDateLockService(nil, quietLogger(), 0)
	svc.Stop()
	svc.Stop()
	assert.Equal(t, defaultLockTTL, svc.ttl)
}

func TestMemoryTokenStore(t *testing.T) {
	store := NewMemoryTokenStore().(*memoryTokenStore)
	now := time.Date(2025, time.June, 3, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	ctx := context.Background()
	opID := uuid.New()

	require.NoError(t, store.Store(ctx, opID, "t1", time.Hour))
	ok, err := store.Exists(ctx, opID, "t1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = store.Exists(ctx, uuid.New(), "t1")
	assert.False(t, ok)

	now = now.Add(2 * time.Hour)
	ok, _ = store.Exists(ctx, opID, "t1")
	assert.False(t, ok)

	require.NoError(t, store.Store(ctx, opID, "t2", time.Hour))
	require.NoError(t, store.Revoke(ctx, opID, "t2"))
	ok, _ = store.Exists(ctx, opID, "t2")
	assert.False(t, ok)
}

func TestAuditService_RecordsMetadata(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditService(quietLogger(), repo)
	opID := uuid.New()

	err := svc.LogCreate(context.Background(), &opID, entity.AuditActionAppointmentBook, "appointment", "abc", map[string]string{"patient_name": "Ana"})
	require.NoError(t, err)

	require.Len(t, repo.logs, 1)
	got := repo.logs[0]
	assert.Equal(t, entity.AuditActionAppointmentBook, got.Action)
	assert.Equal(t, &opID, got.OperatorID)
	assert.Equal(t, "abc", got.Metadata["entity_id"])
	assert.Nil(t, got.Metadata["old_value"])
}

func TestAuditService_PropagatesError(t *testing.T) {
	boom := errors.New("insert failed")
	svc := NewAuditService(quietLogger(), &fakeAuditRepo{err: boom})

	err := svc.LogDelete(context.Background(), nil, entity.AuditActionAppointmentCancel, "appointment", "abc", nil)
	assert.ErrorIs(t, err, boom)
}
