package redislockstore

import (
	dbmodels "ai-interview-backend/models/db"
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// маркер хранится в hash с TTL = порог устаревания, устаревшие маркеры удаляет сам redis

const lockKeyPrefix = "interview:lock:"

var (
	acquireScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return 0
end
redis.call("HSET", KEYS[1], "token", ARGV[1], "acquired_at", ARGV[2])
redis.call("PEXPIRE", KEYS[1], ARGV[3])
return 1
`)
	releaseScript = redis.NewScript(`
if redis.call("HGET", KEYS[1], "token") == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)
)

type Provider interface {
	TryPut(ctx context.Context, rec dbmodels.ResourceLock, staleAfter time.Duration) (ok bool, err error)
	Delete(ctx context.Context, resourceID, token string) error
	Get(ctx context.Context, resourceID string) (*dbmodels.ResourceLock, error)
	DeleteStale(ctx context.Context, staleBefore time.Time) (count int64, err error)
}

func NewInstance(client *redis.Client) Provider {
	return &impl{
		client: client,
	}
}

type impl struct {
	client *redis.Client
}

func (i impl) TryPut(ctx context.Context, rec dbmodels.ResourceLock, staleAfter time.Duration) (ok bool, err error) {
	res, err := acquireScript.Run(ctx, i.client,
		[]string{i.key(rec.ResourceID)},
		rec.Token,
		rec.AcquiredAt.UnixMilli(),
		staleAfter.Milliseconds(),
	).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

func (i impl) Delete(ctx context.Context, resourceID, token string) error {
	return releaseScript.Run(ctx, i.client, []string{i.key(resourceID)}, token).Err()
}

func (i impl) Get(ctx context.Context, resourceID string) (*dbmodels.ResourceLock, error) {
	values, err := i.client.HGetAll(ctx, i.key(resourceID)).Result()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	acquiredAt, err := strconv.ParseInt(values["acquired_at"], 10, 64)
	if err != nil {
		return nil, err
	}
	return &dbmodels.ResourceLock{
		ResourceID: resourceID,
		Token:      values["token"],
		AcquiredAt: time.UnixMilli(acquiredAt).UTC(),
	}, nil
}

func (i impl) DeleteStale(ctx context.Context, staleBefore time.Time) (count int64, err error) {
	return 0, nil
}

func (i impl) key(resourceID string) string {
	return lockKeyPrefix + resourceID
}
