package sessionstore

import (
	dbmodels "ai-interview-backend/models/db"
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// NewMemoryInstance хранилище в памяти, со вторичным индексом по вакансии
func NewMemoryInstance() Provider {
	return &memoryImpl{
		sessions: map[string]dbmodels.InterviewSession{},
		byJob:    map[string]map[string]struct{}{},
	}
}

type memoryImpl struct {
	mu       sync.RWMutex
	sessions map[string]dbmodels.InterviewSession
	byJob    map[string]map[string]struct{} // map[jobID]set[sessionID]
}

func (i *memoryImpl) Save(ctx context.Context, rec dbmodels.InterviewSession) error {
	if rec.ID == "" {
		return errors.New("не указан идентификатор сессии")
	}
	i.mu.Lock()
	defer i.mu.Unlock()

	if existed, ok := i.sessions[rec.ID]; ok && existed.JobID != rec.JobID {
		delete(i.byJob[existed.JobID], rec.ID)
	}
	i.sessions[rec.ID] = rec.Clone()
	ids, ok := i.byJob[rec.JobID]
	if !ok {
		ids = map[string]struct{}{}
		i.byJob[rec.JobID] = ids
	}
	ids[rec.ID] = struct{}{}
	return nil
}

func (i *memoryImpl) GetByID(ctx context.Context, id string) (*dbmodels.InterviewSession, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	rec, ok := i.sessions[id]
	if !ok {
		return nil, nil
	}
	result := rec.Clone()
	return &result, nil
}

func (i *memoryImpl) UpdateStatus(ctx context.Context, id string, status dbmodels.InterviewStatus) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	rec, ok := i.sessions[id]
	if !ok {
		return ErrNotFound
	}
	rec.Status = status
	i.sessions[id] = rec
	return nil
}

func (i *memoryImpl) FindByJobID(ctx context.Context, jobID string) ([]dbmodels.InterviewSession, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	list := make([]dbmodels.InterviewSession, 0, len(i.byJob[jobID]))
	for id := range i.byJob[jobID] {
		list = append(list, i.sessions[id].Clone())
	}
	sort.Slice(list, func(a, b int) bool {
		if list[a].CreatedAt.Equal(list[b].CreatedAt) {
			return list[a].ID < list[b].ID
		}
		return list[a].CreatedAt.Before(list[b].CreatedAt)
	})
	return list, nil
}
