package sessionstore

import (
	dbmodels "ai-interview-backend/models/db"
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Хранилище только сохраняет данные, блокировки и проверки переходов статусов на стороне вызывающего

var ErrNotFound = errors.New("сессия интервью не найдена")

type Provider interface {
	Save(ctx context.Context, rec dbmodels.InterviewSession) error
	GetByID(ctx context.Context, id string) (*dbmodels.InterviewSession, error)
	UpdateStatus(ctx context.Context, id string, status dbmodels.InterviewStatus) error
	FindByJobID(ctx context.Context, jobID string) ([]dbmodels.InterviewSession, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Save(ctx context.Context, rec dbmodels.InterviewSession) error {
	if rec.ID == "" {
		return errors.New("не указан идентификатор сессии")
	}
	err := i.db.
		WithContext(ctx).
		Save(&rec).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) GetByID(ctx context.Context, id string) (*dbmodels.InterviewSession, error) {
	rec := dbmodels.InterviewSession{}
	err := i.db.
		WithContext(ctx).
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) UpdateStatus(ctx context.Context, id string, status dbmodels.InterviewStatus) error {
	tx := i.db.
		WithContext(ctx).
		Model(&dbmodels.InterviewSession{}).
		Where("id = ?", id).
		Update("status", status)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (i impl) FindByJobID(ctx context.Context, jobID string) ([]dbmodels.InterviewSession, error) {
	list := []dbmodels.InterviewSession{}
	err := i.db.
		WithContext(ctx).
		Model(dbmodels.InterviewSession{}).
		Where("job_id = ?", jobID).
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
