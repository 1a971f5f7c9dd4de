package lock

import (
	dbmodels "ai-interview-backend/models/db"
	"context"
	"sync"
	"time"
)

// NewMemoryBackend маркеры в памяти процесса
func NewMemoryBackend() Backend {
	return &memoryBackend{}
}

type memoryBackend struct {
	lockMap sync.Map
}

func (b *memoryBackend) TryPut(ctx context.Context, rec dbmodels.ResourceLock, staleAfter time.Duration) (ok bool, err error) {
	for {
		actual, loaded := b.lockMap.LoadOrStore(rec.ResourceID, rec)
		if !loaded {
			return true, nil
		}
		existed := actual.(dbmodels.ResourceLock)
		if !existed.IsStale(rec.AcquiredAt, staleAfter) {
			return false, nil
		}
		if b.lockMap.CompareAndSwap(rec.ResourceID, existed, rec) {
			return true, nil
		}
	}
}

func (b *memoryBackend) Delete(ctx context.Context, resourceID, token string) error {
	actual, ok := b.lockMap.Load(resourceID)
	if !ok {
		return nil
	}
	existed := actual.(dbmodels.ResourceLock)
	if existed.Token != token {
		return nil
	}
	b.lockMap.CompareAndDelete(resourceID, existed)
	return nil
}

func (b *memoryBackend) Get(ctx context.Context, resourceID string) (*dbmodels.ResourceLock, error) {
	actual, ok := b.lockMap.Load(resourceID)
	if !ok {
		return nil, nil
	}
	rec := actual.(dbmodels.ResourceLock)
	return &rec, nil
}

func (b *memoryBackend) DeleteStale(ctx context.Context, staleBefore time.Time) (count int64, err error) {
	b.lockMap.Range(func(key, value any) bool {
		rec := value.(dbmodels.ResourceLock)
		if rec.AcquiredAt.Before(staleBefore) && b.lockMap.CompareAndDelete(key, rec) {
			count++
		}
		return true
	})
	return count, nil
}
