package lock

import (
	dbmodels "ai-interview-backend/models/db"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// lock на изменение состояния ресурса (сессии интервью).
// Захват не ждет: если ресурс занят, сразу возвращается ErrResourceLocked.
// Маркер старше staleAfter считается брошенным (упал процесс) и перезахватывается.

const DefaultStaleAfter = 60 * time.Second

var ErrResourceLocked = errors.New("ресурс заблокирован другой операцией")

// Backend хранилище маркеров блокировок
type Backend interface {
	// TryPut сохраняет маркер, если маркера нет или существующий устарел
	TryPut(ctx context.Context, rec dbmodels.ResourceLock, staleAfter time.Duration) (ok bool, err error)
	// Delete удаляет маркер только если он принадлежит token
	Delete(ctx context.Context, resourceID, token string) error
	Get(ctx context.Context, resourceID string) (*dbmodels.ResourceLock, error)
	DeleteStale(ctx context.Context, staleBefore time.Time) (count int64, err error)
}

type Manager struct {
	backend    Backend
	staleAfter time.Duration
	now        func() time.Time
}

type Option func(m *Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func NewManager(backend Backend, staleAfter time.Duration, opts ...Option) *Manager {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	m := &Manager{
		backend:    backend,
		staleAfter: staleAfter,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) StaleAfter() time.Duration {
	return m.staleAfter
}

// Acquire захват ресурса, без ожидания
func (m *Manager) Acquire(ctx context.Context, resourceID string) (*Handle, error) {
	rec := dbmodels.ResourceLock{
		ResourceID: resourceID,
		Token:      uuid.NewString(),
		AcquiredAt: m.now().UTC(),
	}
	ok, err := m.backend.TryPut(ctx, rec, m.staleAfter)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка сохранения маркера блокировки")
	}
	if !ok {
		return nil, errors.Wrapf(ErrResourceLocked, "ресурс %v", resourceID)
	}
	return &Handle{
		manager: m,
		rec:     rec,
	}, nil
}

// WithLock выполняет safeCode под блокировкой ресурса, блокировка снимается при любом выходе.
// Контекст safeCode завершается через staleAfter: после этого маркер может быть перезахвачен.
// Перед сохранением результата safeCode должен вызвать handle.Check.
func (m *Manager) WithLock(ctx context.Context, resourceID string, safeCode func(ctx context.Context, handle *Handle) error) (err error) {
	handle, err := m.Acquire(ctx, resourceID)
	if err != nil {
		return err
	}
	defer func() {
		releaseErr := handle.Release(context.WithoutCancel(ctx))
		if releaseErr != nil {
			log.
				WithField("resource_id", resourceID).
				WithError(releaseErr).
				Error("ошибка снятия блокировки ресурса")
		}
	}()
	lockCtx, cancel := context.WithTimeout(ctx, m.staleAfter)
	defer cancel()
	return safeCode(lockCtx, handle)
}

// IsLocked проверка наличия актуального маркера
func (m *Manager) IsLocked(ctx context.Context, resourceID string) (bool, error) {
	rec, err := m.backend.Get(ctx, resourceID)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, nil
	}
	return !rec.IsStale(m.now().UTC(), m.staleAfter), nil
}

// DeleteStale удаляет устаревшие маркеры
func (m *Manager) DeleteStale(ctx context.Context) (int64, error) {
	return m.backend.DeleteStale(ctx, m.now().UTC().Add(-m.staleAfter))
}

type Handle struct {
	manager  *Manager
	rec      dbmodels.ResourceLock
	released bool
}

func (h *Handle) ResourceID() string {
	if h == nil {
		return ""
	}
	return h.rec.ResourceID
}

// Check маркер все еще принадлежит держателю и не устарел.
// Иначе ErrResourceLocked: ресурс мог быть перезахвачен другой операцией.
func (h *Handle) Check(ctx context.Context) error {
	if h == nil || h.released {
		return errors.Wrap(ErrResourceLocked, "блокировка не удерживается")
	}
	rec, err := h.manager.backend.Get(ctx, h.rec.ResourceID)
	if err != nil {
		return errors.Wrap(err, "ошибка чтения маркера блокировки")
	}
	if rec == nil || rec.Token != h.rec.Token || rec.IsStale(h.manager.now().UTC(), h.manager.staleAfter) {
		return errors.Wrapf(ErrResourceLocked, "блокировка ресурса %v утеряна", h.rec.ResourceID)
	}
	return nil
}

// Release повторный вызов и вызов для незахваченной блокировки ничего не делают
func (h *Handle) Release(ctx context.Context) error {
	if h == nil || h.released {
		return nil
	}
	if err := h.manager.backend.Delete(ctx, h.rec.ResourceID, h.rec.Token); err != nil {
		return err
	}
	h.released = true
	return nil
}
