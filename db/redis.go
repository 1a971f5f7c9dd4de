package db

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

var Redis *redis.Client

func ConnectRedis(ctx context.Context, addr, password string, database int) error {
	if Redis != nil {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       database,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return errors.Wrap(err, "Ошибка подключения к Redis")
	}
	Redis = client
	log.Info("Сервис успешно подключен к Redis")
	return nil
}
