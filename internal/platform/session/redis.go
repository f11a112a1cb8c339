// Package session keeps server-side login sessions in Redis so that issued
// tokens can be revoked before they expire.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"hrportal/internal/domain/auth"
)

const keyPrefix = "session:"

// Connect dials Redis and verifies it answers.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("platform/session: ping: %w", err)
	}
	return client, nil
}

// RedisStore implements auth.SessionStore. Records are keyed by the SHA-256
// of the session id and never hold the raw id.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) Create(ctx context.Context, sess auth.Session) error {
	if sess.ID == "" {
		return errors.New("platform/session: empty session id")
	}
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return errors.New("platform/session: session already expired")
	}
	key := sessionKey(sess.ID)
	sess.ID = ""
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *RedisStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	n, err := s.client.Exists(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("platform/session: exists: %w", err)
	}
	return n == 1, nil
}

// Get returns the stored session, or redis.Nil when it is gone.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (auth.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		return auth.Session{}, err
	}
	var sess auth.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return auth.Session{}, fmt.Errorf("platform/session: decode: %w", err)
	}
	sess.ID = sessionID
	return sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("platform/session: delete: %w", err)
	}
	return nil
}

func sessionKey(sessionID string) string {
	return keyPrefix + auth.HashToken(sessionID)
}

// Ping reports Redis health for readiness probes.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
