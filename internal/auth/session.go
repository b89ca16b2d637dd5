package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionKeyPrefix is the Redis key prefix for sessions
const SessionKeyPrefix = "session:"

// SessionRegistry records which token IDs are still live.
type SessionRegistry interface {
	Create(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	// Lookup returns the owning user ID, or ErrSessionRevoked.
	Lookup(ctx context.Context, sessionID string) (string, error)
	Revoke(ctx context.Context, sessionID string) error
}

// RedisSessions stores session:<jti> -> userID with the token's lifetime.
type RedisSessions struct {
	rdb *redis.Client
}

func NewRedisSessions(rdb *redis.Client) *RedisSessions {
	return &RedisSessions{rdb: rdb}
}

func (s *RedisSessions) Create(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	return s.rdb.Set(ctx, SessionKeyPrefix+sessionID, userID, ttl).Err()
}

func (s *RedisSessions) Lookup(ctx context.Context, sessionID string) (string, error) {
	userID, err := s.rdb.Get(ctx, SessionKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionRevoked
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *RedisSessions) Revoke(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.rdb.Del(ctx, SessionKeyPrefix+sessionID).Err()
}

// MemorySessions is a process-local registry for development and tests.
type MemorySessions struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

type memorySession struct {
	userID  string
	expires time.Time
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[string]memorySession), now: time.Now}
}

func (s *MemorySessions) Create(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = memorySession{userID: userID, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemorySessions) Lookup(ctx context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return "", ErrSessionRevoked
	}
	if !s.now().Before(sess.expires) {
		delete(s.sessions, sessionID)
		return "", ErrSessionRevoked
	}
	return sess.userID, nil
}

func (s *MemorySessions) Revoke(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
