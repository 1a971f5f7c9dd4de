package initializers

import (
	"ai-interview-backend/config"
	"ai-interview-backend/fiberlog"
	locksweepworker "ai-interview-backend/lib/interview/lock-sweep-worker"
	"ai-interview-backend/lib/utils/lock"
	connectionhub "ai-interview-backend/lib/ws/hub/connection-hub"
	"context"
	"time"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	LoggerConfig.SlowThreshold = time.Duration(config.Conf.App.SlowRequestMs) * time.Millisecond
	if needDB() {
		InitDBConnection()
	}
	if needRedis() {
		InitRedis(ctx)
	}
	InitSmtp()
	connectionhub.Init()
	lock.InitResourceLock(ctx)
	InitLock()
	InitInterview(ctx)
	initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	// Задача удаления устаревших блокировок сессий
	if config.Conf.Lock.SweepInterval > 0 {
		locksweepworker.StartWorker(ctx, LockManager, time.Duration(config.Conf.Lock.SweepInterval)*time.Second)
	}
}
