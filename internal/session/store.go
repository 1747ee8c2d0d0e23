package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 24 * time.Hour

var ErrNotFound = errors.New("session not found")

// Session is the single active authenticated identity plus its opaque handle.
// It is replaced wholesale on sign-in and sign-out, never patched.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store keeps session handles in Redis, or in process memory when Redis is
// not configured (single-tenant deployments run fine without it).
type Store struct {
	redis *redis.Client
	ttl   time.Duration

	mu    sync.RWMutex
	local map[string]Session
}

func NewStore(redisClient *redis.Client) *Store {
	return &Store{
		redis: redisClient,
		ttl:   defaultTTL,
		local: map[string]Session{},
	}
}

func (s *Store) Create(ctx context.Context, userID, email string) (Session, error) {
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Email:     email,
		ExpiresAt: time.Now().Add(s.ttl),
	}

	if s.redis == nil {
		s.mu.Lock()
		s.local[sess.ID] = sess
		s.mu.Unlock()
		return sess, nil
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return Session{}, err
	}
	if err := s.redis.Set(ctx, sessionKey(sess.ID), payload, s.ttl).Err(); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	if s.redis == nil {
		s.mu.RLock()
		sess, ok := s.local[id]
		s.mu.RUnlock()
		if !ok || time.Now().After(sess.ExpiresAt) {
			return Session{}, ErrNotFound
		}
		return sess, nil
	}

	payload, err := s.redis.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, err
	}

	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Delete terminates a session. Best-effort: callers treat failures as a
// successful sign-out, the handle simply expires later.
func (s *Store) Delete(ctx context.Context, id string) error {
	if s.redis == nil {
		s.mu.Lock()
		delete(s.local, id)
		s.mu.Unlock()
		return nil
	}
	return s.redis.Del(ctx, sessionKey(id)).Err()
}

func sessionKey(id string) string {
	return "session:" + id
}
