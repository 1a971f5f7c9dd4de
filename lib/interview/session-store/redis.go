package sessionstore

import (
	dbmodels "ai-interview-backend/models/db"
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "interview:session:"
	jobKeyPrefix     = "interview:job:"
	defaultTTL       = 24 * time.Hour
)

// NewRedisInstance сессия хранится json значением, индекс по вакансии - set идентификаторов
func NewRedisInstance(client *redis.Client, ttl time.Duration) Provider {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &redisImpl{
		client: client,
		ttl:    ttl,
	}
}

type redisImpl struct {
	client *redis.Client
	ttl    time.Duration
}

func (i redisImpl) Save(ctx context.Context, rec dbmodels.InterviewSession) error {
	if rec.ID == "" {
		return errors.New("не указан идентификатор сессии")
	}
	existed, err := i.GetByID(ctx, rec.ID)
	if err != nil {
		return err
	}
	val, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "ошибка сериализации сессии")
	}
	_, err = i.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, i.sessionKey(rec.ID), val, i.ttl)
		if existed != nil && existed.JobID != rec.JobID {
			pipe.SRem(ctx, i.jobKey(existed.JobID), rec.ID)
		}
		pipe.SAdd(ctx, i.jobKey(rec.JobID), rec.ID)
		pipe.Expire(ctx, i.jobKey(rec.JobID), i.ttl)
		return nil
	})
	return err
}

func (i redisImpl) GetByID(ctx context.Context, id string) (*dbmodels.InterviewSession, error) {
	val, err := i.client.Get(ctx, i.sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec := dbmodels.InterviewSession{}
	if err = json.Unmarshal(val, &rec); err != nil {
		return nil, errors.Wrap(err, "ошибка десериализации сессии")
	}
	return &rec, nil
}

func (i redisImpl) UpdateStatus(ctx context.Context, id string, status dbmodels.InterviewStatus) error {
	key := i.sessionKey(id)
	return i.client.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		rec := dbmodels.InterviewSession{}
		if err = json.Unmarshal(val, &rec); err != nil {
			return errors.Wrap(err, "ошибка десериализации сессии")
		}
		rec.Status = status
		newVal, err := json.Marshal(rec)
		if err != nil {
			return errors.Wrap(err, "ошибка сериализации сессии")
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, newVal, i.ttl)
			return nil
		})
		return err
	}, key)
}

func (i redisImpl) FindByJobID(ctx context.Context, jobID string) ([]dbmodels.InterviewSession, error) {
	ids, err := i.client.SMembers(ctx, i.jobKey(jobID)).Result()
	if err != nil {
		return nil, err
	}
	list := make([]dbmodels.InterviewSession, 0, len(ids))
	for _, id := range ids {
		rec, err := i.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			// сессия истекла по TTL
			continue
		}
		list = append(list, *rec)
	}
	sort.Slice(list, func(a, b int) bool {
		if list[a].CreatedAt.Equal(list[b].CreatedAt) {
			return list[a].ID < list[b].ID
		}
		return list[a].CreatedAt.Before(list[b].CreatedAt)
	})
	return list, nil
}

func (i redisImpl) sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (i redisImpl) jobKey(jobID string) string {
	return jobKeyPrefix + jobID
}
