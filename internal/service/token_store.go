package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenStore keeps the set of issued access tokens that have not been revoked.
type TokenStore interface {
	Store(ctx context.Context, operatorID uuid.UUID, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, operatorID uuid.UUID, tokenID string) (bool, error)
	Revoke(ctx context.Context, operatorID uuid.UUID, tokenID string) error
}

func accessTokenKey(operatorID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("access_token:%s:%s", operatorID.String(), tokenID)
}

type redisTokenStore struct {
	redisClient *redis.Client
}

func NewRedisTokenStore(redisClient *redis.Client) TokenStore {
	return &redisTokenStore{redisClient: redisClient}
}

func (s *redisTokenStore) Store(ctx context.Context, operatorID uuid.UUID, tokenID string, ttl time.Duration) error {
	return s.redisClient.Set(ctx, accessTokenKey(operatorID, tokenID), "valid", ttl).Err()
}

func (s *redisTokenStore) Exists(ctx context.Context, operatorID uuid.UUID, tokenID string) (bool, error) {
	n, err := s.redisClient.Exists(ctx, accessTokenKey(operatorID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisTokenStore) Revoke(ctx context.Context, operatorID uuid.UUID, tokenID string) error {
	return s.redisClient.Del(ctx, accessTokenKey(operatorID, tokenID)).Err()
}

// memoryTokenStore is used when Redis is disabled. Tokens do not survive a restart.
type memoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	now    func() time.Time
}

func NewMemoryTokenStore() TokenStore {
	return &memoryTokenStore{
		tokens: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (s *memoryTokenStore) Store(_ context.Context, operatorID uuid.UUID, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, exp := range s.tokens {
		if !exp.After(now) {
			delete(s.tokens, k)
		}
	}
	s.tokens[accessTokenKey(operatorID, tokenID)] = now.Add(ttl)
	return nil
}

func (s *memoryTokenStore) Exists(_ context.Context, operatorID uuid.UUID, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.tokens[accessTokenKey(operatorID, tokenID)]
	return ok && exp.After(s.now()), nil
}

func (s *memoryTokenStore) Revoke(_ context.Context, operatorID uuid.UUID, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, accessTokenKey(operatorID, tokenID))
	return nil
}
