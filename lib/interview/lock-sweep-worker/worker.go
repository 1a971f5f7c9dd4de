package locksweepworker

import (
	baseworker "ai-interview-backend/lib/utils/base-worker"
	"ai-interview-backend/lib/utils/lock"
	"context"
	"time"
)

// StartWorker удаление устаревших маркеров блокировок сессий.
// Удаляются только маркеры старше порога, которые и так перезахватываются при Acquire.
func StartWorker(ctx context.Context, manager *lock.Manager, interval time.Duration) {
	i := newWorker(manager, interval)
	go i.Run(ctx, i.handle)
}

func newWorker(manager *lock.Manager, interval time.Duration) *impl {
	return &impl{
		BaseImpl: *baseworker.NewInstance("LockSweepWorker", 30*time.Second, interval),
		manager:  manager,
	}
}

type impl struct {
	baseworker.BaseImpl
	manager *lock.Manager
}

func (i impl) handle(ctx context.Context) {
	count, err := i.manager.DeleteStale(ctx)
	if err != nil {
		i.GetLogger().WithError(err).Error("Ошибка удаления устаревших блокировок")
		return
	}
	if count > 0 {
		i.GetLogger().
			WithField("count", count).
			Warn("Удалены устаревшие блокировки сессий")
	}
}
