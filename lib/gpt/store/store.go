package ailogstore

import (
	dbmodels "ai-interview-backend/models/db"
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Provider журнал запросов к ИИ по сессиям интервью
type Provider interface {
	Save(ctx context.Context, rec dbmodels.AiLog) (id string, err error)
	FindBySession(ctx context.Context, sessionID string) ([]dbmodels.AiLog, error)
}

// Instance nil, если журнал не ведется (нет подключения к БД)
var Instance Provider

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Save(ctx context.Context, rec dbmodels.AiLog) (string, error) {
	if rec.SessionID == "" {
		return "", errors.New("запись журнала ИИ без идентификатора сессии")
	}
	err := i.db.
		WithContext(ctx).
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) FindBySession(ctx context.Context, sessionID string) ([]dbmodels.AiLog, error) {
	list := []dbmodels.AiLog{}
	err := i.db.
		WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
