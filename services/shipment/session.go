package shipment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tmurray-at-tygershark/solushipX-sub005/models"

	"github.com/go-redis/redis/v8"
)

// SessionStore keeps an operator's editing session between requests.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.DraftSession, error)
	Put(ctx context.Context, session *models.DraftSession) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisSessionStore is the production SessionStore.
type RedisSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{Client: client, TTL: ttl}
}

func sessionKey(sessionID string) string {
	return "shipment:session:" + sessionID
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*models.DraftSession, error) {
	data, err := s.Client.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return nil, ErrSessionNotFound
	}
	var session models.DraftSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (s *RedisSessionStore) Put(ctx context.Context, session *models.DraftSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, sessionKey(session.SessionID), data, s.TTL).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.Client.Del(ctx, sessionKey(sessionID)).Err()
}
