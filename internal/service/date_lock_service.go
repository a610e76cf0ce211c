package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"clinic-agenda/internal/domain/schedule"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// Errors
// =============================================================================

// ErrDateLocked is returned when another instance holds the booking lock for a date until the wait runs out.
var ErrDateLocked = errors.New("date is locked by another booking")

// releaseLockScript deletes the lock key only while it still holds our token,
// so a lock that expired and was taken by someone else is left alone.
var releaseLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// =============================================================================
// Constants
// =============================================================================

const (
	RedisDateLockKeyPrefix = "agenda:lock:"

	lockRetryInterval = 25 * time.Millisecond

	defaultLockTTL = 10 * time.Second

	// Interval for cleaning up stale mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// =============================================================================
// Types
// =============================================================================

// DateLocker serializes the check-then-insert of bookings on the same date.
type DateLocker interface {
	Lock(ctx context.Context, date time.Time) (unlock func(), err error)
}

// DateLockService makes booking on one date mutually exclusive.
//
// Inside one process a per-date mutex is enough. When a Redis client is configured
// the service also takes a SET NX lock so several instances sharing the database
// agree on who may write to a date.
//
// Lock Ordering:
// 1. Acquire date mutex FIRST
// 2. Then the Redis lock
type DateLockService struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration

	dateMu sync.Map // map[string]*mutexWithTimestamp

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// =============================================================================
// Constructor
// =============================================================================

// NewDateLockService starts the background mutex cleanup. redisClient may be nil.
// Call Stop() during graceful shutdown.
func NewDateLockService(redisClient *redis.Client, log *logrus.Logger, ttl time.Duration) *DateLockService {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}

	svc := &DateLockService{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
		stopChan:    make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.cleanupMutexMapLoop()

	return svc
}

// =============================================================================
// Lifecycle Methods
// =============================================================================

// Stop gracefully shuts down the service.
// Safe to call multiple times.
func (s *DateLockService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("DateLockService stopped")
	}
}

// =============================================================================
// Public Methods
// =============================================================================

// Lock blocks until the caller owns the given date. The returned func releases it and must be called exactly once.
func (s *DateLockService) Lock(ctx context.Context, date time.Time) (func(), error) {
	key := schedule.FormatDate(date)

	mt := s.lockDateMutex(key, s.getDateMutex(key))

	if s.redisClient == nil {
		return func() {
			mt.lastUsed.Store(time.Now().Unix())
			mt.mu.Unlock()
		}, nil
	}

	token, err := s.acquireRedisLock(ctx, key)
	if err != nil {
		mt.mu.Unlock()
		return nil, err
	}

	return func() {
		s.releaseRedisLock(key, token)
		mt.lastUsed.Store(time.Now().Unix())
		mt.mu.Unlock()
	}, nil
}

// =============================================================================
// Private Helper Methods
// =============================================================================

func (s *DateLockService) acquireRedisLock(ctx context.Context, key string) (string, error) {
	redisKey := RedisDateLockKeyPrefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(s.ttl)

	for {
		ok, err := s.redisClient.SetNX(ctx, redisKey, token, s.ttl).Result()
		if err != nil {
			s.log.Warnf("Failed to acquire redis lock for %s: %+v", key, err)
			return "", fmt.Errorf("acquire redis lock for %s: %w", key, err)
		}
		if ok {
			return token, nil
		}

		if time.Now().After(deadline) {
			return "", ErrDateLocked
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}

func (s *DateLockService) releaseRedisLock(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := releaseLockScript.Run(ctx, s.redisClient, []string{RedisDateLockKeyPrefix + key}, token).Err(); err != nil {
		s.log.Errorf("Failed to release redis lock for %s: %+v", key, err)
	}
}

// getDateMutex returns mutex for a specific date
func (s *DateLockService) getDateMutex(key string) *mutexWithTimestamp {
	mt, _ := s.dateMu.LoadOrStore(key, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

// lockDateMutex locks mt and returns it, or the entry that replaced it if cleanup
// dropped mt from the map before the lock was taken.
func (s *DateLockService) lockDateMutex(key string, mt *mutexWithTimestamp) *mutexWithTimestamp {
	for {
		mt.mu.Lock()
		if current, ok := s.dateMu.Load(key); ok && current == mt {
			return mt
		}
		mt.mu.Unlock()
		mt = s.getDateMutex(key)
	}
}

// cleanupMutexMapLoop runs in background to clean stale mutexes
func (s *DateLockService) cleanupMutexMapLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			s.log.Debug("Mutex cleanup goroutine stopping")
			return
		case <-ticker.C:
			s.cleanupStaleMutexes(time.Now().Add(-mutexStaleThreshold))
		}
	}
}

// cleanupStaleMutexes removes mutexes unused since cutoff. TryLock skips the ones in use.
func (s *DateLockService) cleanupStaleMutexes(cutoff time.Time) int {
	var cleaned int

	s.dateMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.mu.TryLock() {
			// lastUsed is read under the lock so a concurrent Lock cannot slip in between
			if mt.lastUsed.Load() < cutoff.Unix() {
				s.dateMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		s.log.Debugf("Cleaned up %d stale mutexes", cleaned)
	}
	return cleaned
}
