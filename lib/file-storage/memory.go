package filestorage

import (
	interviewapimodels "ai-interview-backend/models/api/interview"
	"context"
	"sync"
)

type memoryImpl struct {
	mu    sync.RWMutex
	files map[string]interviewapimodels.FileData
}

// NewMemoryInstance хранилище файлов в памяти процесса, используется если S3 не настроен
func NewMemoryInstance() interviewapimodels.MediaStorage {
	return &memoryImpl{
		files: map[string]interviewapimodels.FileData{},
	}
}

func (m *memoryImpl) UploadAnswer(ctx context.Context, sessionID string, sequence int, file interviewapimodels.FileData) (string, error) {
	objectName := AnswerObjectName(sessionID, sequence, file.FileName)
	body := make([]byte, len(file.Body))
	copy(body, file.Body)
	file.Body = body

	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[objectName] = file
	return objectName, nil
}

func (m *memoryImpl) GetAnswer(ctx context.Context, objectName string) (interviewapimodels.FileData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	file, ok := m.files[objectName]
	if !ok {
		return interviewapimodels.FileData{}, ErrFileNotFound
	}
	return file, nil
}

func (m *memoryImpl) DeleteAnswer(ctx context.Context, objectName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, objectName)
	return nil
}
