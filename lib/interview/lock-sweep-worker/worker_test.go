package locksweepworker

import (
	"ai-interview-backend/lib/utils/lock"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHandle(t *testing.T) {
	ctx := context.TODO()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	backend := lock.NewMemoryBackend()
	manager := lock.NewManager(backend, time.Minute, lock.WithClock(func() time.Time { return now }))

	_, err := manager.Acquire(ctx, "old")
	require.Nil(t, err)
	now = now.Add(2 * time.Minute)
	_, err = manager.Acquire(ctx, "fresh")
	require.Nil(t, err)

	newWorker(manager, time.Minute).handle(ctx)

	rec, err := backend.Get(ctx, "old")
	require.Nil(t, err)
	require.Nil(t, rec)
	locked, err := manager.IsLocked(ctx, "fresh")
	require.Nil(t, err)
	require.True(t, locked)
}
