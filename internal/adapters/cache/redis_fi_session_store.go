package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/novascore/credit-engine/internal/domain"
)

// RedisFISessionStore implements ports.FISessionStore for multi-instance
// deployments, keyed by txn_id with a session_id secondary index.
type RedisFISessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisFISessionStore builds a Redis-backed FI session store.
func NewRedisFISessionStore(client *redis.Client, ttl time.Duration) *RedisFISessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisFISessionStore{client: client, ttl: ttl}
}

func fiKey(txnID string) string        { return "fi:session:" + txnID }
func fiSessionIdxKey(sid string) string { return "fi:session-idx:" + sid }

func (s *RedisFISessionStore) Put(ctx context.Context, session domain.FISession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, fiKey(session.TxnID), raw, s.ttl).Err(); err != nil {
		return err
	}
	if session.SessionID != "" {
		if err := s.client.Set(ctx, fiSessionIdxKey(session.SessionID), session.TxnID, s.ttl).Err(); err != nil {
			return err
		}
	}
	return nil
}

func (s *RedisFISessionStore) Get(ctx context.Context, txnID string) (*domain.FISession, error) {
	raw, err := s.client.Get(ctx, fiKey(txnID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session domain.FISession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisFISessionStore) GetBySessionID(ctx context.Context, sessionID string) (*domain.FISession, error) {
	txnID, err := s.client.Get(ctx, fiSessionIdxKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, txnID)
}
