package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/novascore/credit-engine/internal/domain"
)

// RedisIdentityStore implements ports.IdentityStore in Redis hashes, grounded on
// the retrieval pack's redis-backed lockout store: HINCRBY for the failure
// counter, an expiring key so stale lockouts self-clear.
type RedisIdentityStore struct {
	client *redis.Client
}

// NewRedisIdentityStore constructs a Redis-backed identity/rate-limit store.
func NewRedisIdentityStore(client *redis.Client) *RedisIdentityStore {
	return &RedisIdentityStore{client: client}
}

func lockoutKey(hashedID string) string { return "aadhaar:lockout:" + hashedID }
func sessionKey(hashedID string) string { return "aadhaar:otpsession:" + hashedID }

func (s *RedisIdentityStore) IsLocked(ctx context.Context, hashedID string) (bool, error) {
	raw, err := s.client.HGet(ctx, lockoutKey(hashedID), "locked_until").Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	unix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || unix == 0 {
		return false, nil
	}
	return time.Unix(unix, 0).After(time.Now()), nil
}

func (s *RedisIdentityStore) RemainingLockout(ctx context.Context, hashedID string) (time.Duration, error) {
	raw, err := s.client.HGet(ctx, lockoutKey(hashedID), "locked_until").Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	unix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || unix == 0 {
		return 0, nil
	}
	remaining := time.Until(time.Unix(unix, 0))
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

func (s *RedisIdentityStore) IncrementFailed(ctx context.Context, hashedID string, now time.Time, maxAttempts int, lockout time.Duration) (bool, int, error) {
	key := lockoutKey(hashedID)
	count, err := s.client.HIncrBy(ctx, key, "failed_count", 1).Result()
	if err != nil {
		return false, 0, err
	}
	attemptsLeft := int(int64(maxAttempts) - count)
	if attemptsLeft < 0 {
		attemptsLeft = 0
	}
	locked := count >= int64(maxAttempts)
	if locked {
		until := now.Add(lockout)
		if err := s.client.HSet(ctx, key, "locked_until", until.Unix()).Err(); err != nil {
			return false, 0, err
		}
		_ = s.client.Expire(ctx, key, lockout+time.Hour).Err()
		return true, 0, nil
	}
	_ = s.client.Expire(ctx, key, 24*time.Hour).Err()
	return false, attemptsLeft, nil
}

func (s *RedisIdentityStore) Reset(ctx context.Context, hashedID string) error {
	return s.client.Del(ctx, lockoutKey(hashedID)).Err()
}

func (s *RedisIdentityStore) PutSession(ctx context.Context, hashedID string, session domain.OTPSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(hashedID), raw, 15*time.Minute).Err()
}

func (s *RedisIdentityStore) GetSession(ctx context.Context, hashedID string) (*domain.OTPSession, error) {
	raw, err := s.client.Get(ctx, sessionKey(hashedID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session domain.OTPSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisIdentityStore) ClearSession(ctx context.Context, hashedID string) error {
	return s.client.Del(ctx, sessionKey(hashedID)).Err()
}
