package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lk16/mines/internal/minesweeper"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix  = "session:"
	lockKeySuffix     = ":lock"
	lockTTL           = 5 * time.Second
	lockRetryInterval = 20 * time.Millisecond
)

// ErrLockTimeout is returned when the session lock could not be taken before the context ended.
var ErrLockTimeout = errors.New("timed out waiting for session lock")

// releaseLockScript deletes the lock only if we still own it.
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore keeps sessions in Redis so that all server processes see the same sessions.
// Updates are serialized per session with a lock key.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore. Sessions expire after ttl without updates.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (s *RedisStore) Create(ctx context.Context, board *minesweeper.Board) (string, error) {
	session := &Session{ID: uuid.New().String(), Board: board}

	data, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("error marshaling session: %w", err)
	}

	if err = s.client.Set(ctx, sessionKey(session.ID), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("error storing session: %w", err)
	}

	return session.ID, nil
}

func (s *RedisStore) load(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading session: %w", err)
	}

	var session Session
	if err = json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("error unmarshaling session: %w", err)
	}

	return &session, nil
}

func (s *RedisStore) Update(ctx context.Context, id string, fn func(*Session) error) error {
	release, err := s.lock(ctx, id)
	if err != nil {
		return err
	}
	defer release()

	session, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	fnErr := fn(session)

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("error marshaling session: %w", err)
	}

	if err = s.client.Set(ctx, sessionKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("error storing session: %w", err)
	}

	return fnErr
}

func (s *RedisStore) View(ctx context.Context, id string, fn func(*Session) error) error {
	session, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	return fn(session)
}

// Delete removes the session. It waits for the session lock so that a running Update
// cannot write the session back afterwards.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	release, err := s.lock(ctx, id)
	if err != nil {
		return err
	}
	defer release()

	deleted, err := s.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}

	if deleted == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return nil
}

// lock takes the session lock, retrying until ctx is done. The returned function releases it.
func (s *RedisStore) lock(ctx context.Context, id string) (func(), error) {
	key := sessionKey(id) + lockKeySuffix
	token := uuid.New().String()

	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()

	for {
		acquired, err := s.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil && ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrLockTimeout, ctx.Err())
		}
		if err != nil {
			return nil, fmt.Errorf("error taking session lock: %w", err)
		}

		if acquired {
			release := func() {
				// The request context may already be cancelled, the lock must be released anyway.
				releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lockTTL)
				defer cancel()

				releaseLockScript.Run(releaseCtx, s.client, []string{key}, token) //nolint: errcheck
			}
			return release, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrLockTimeout, ctx.Err())
		case <-ticker.C:
		}
	}
}
