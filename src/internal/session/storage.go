package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"accessgate-svc/src/internal/config"
	"accessgate-svc/src/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Storage is the durable holder-side session store. A record survives a
// holder restart; Clear removes it in full.
type Storage interface {
	Save(ctx context.Context, sessionID string, state *HolderState) error
	Load(ctx context.Context, sessionID string) (*HolderState, error)
	Clear(ctx context.Context, sessionID string) error
}

const storageKeyPattern = "holder:%s"

type redisStorage struct {
	client *redis.Client
	cfg    *config.SessionConfig
}

func NewRedisStorage(client *redis.Client, cfg *config.Configuration) Storage {
	return &redisStorage{
		client: client,
		cfg:    &cfg.Session,
	}
}

func (s *redisStorage) Save(ctx context.Context, sessionID string, state *HolderState) error {
	key := fmt.Sprintf(storageKeyPattern, sessionID)

	data, err := json.Marshal(state)
	if err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Error("Failed to marshal holder state")
		return models.ErrRedisSet
	}

	ttl := time.Duration(s.cfg.StorageExpirationMinutes) * time.Minute
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Error("Failed to save holder state")
		return models.ErrRedisSet
	}

	logrus.WithField("session_id", sessionID).Debug("Holder state saved")
	return nil
}

func (s *redisStorage) Load(ctx context.Context, sessionID string) (*HolderState, error) {
	key := fmt.Sprintf(storageKeyPattern, sessionID)

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			logrus.WithField("session_id", sessionID).Debug("Holder state not found")
			return nil, nil // Not an error, just not found
		}
		logrus.WithError(err).WithField("session_id", sessionID).Error("Failed to load holder state")
		return nil, models.ErrRedisGet
	}

	var state HolderState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Error("Failed to unmarshal holder state")
		return nil, models.ErrRedisGet
	}

	return &state, nil
}

func (s *redisStorage) Clear(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf(storageKeyPattern, sessionID)

	if err := s.client.Del(ctx, key).Err(); err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Error("Failed to clear holder state")
		return models.ErrRedisDelete
	}

	logrus.WithField("session_id", sessionID).Debug("Holder state cleared")
	return nil
}
