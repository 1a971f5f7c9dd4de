package dblockstore

import (
	dbmodels "ai-interview-backend/models/db"
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// маркеры блокировок в таблице resource_locks, видны снаружи процесса

type Provider interface {
	TryPut(ctx context.Context, rec dbmodels.ResourceLock, staleAfter time.Duration) (ok bool, err error)
	Delete(ctx context.Context, resourceID, token string) error
	Get(ctx context.Context, resourceID string) (*dbmodels.ResourceLock, error)
	DeleteStale(ctx context.Context, staleBefore time.Time) (count int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) TryPut(ctx context.Context, rec dbmodels.ResourceLock, staleAfter time.Duration) (ok bool, err error) {
	tx := i.db.
		WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rec)
	if tx.Error != nil {
		return false, tx.Error
	}
	if tx.RowsAffected == 1 {
		return true, nil
	}
	// маркер есть, перезахватываем только устаревший
	tx = i.db.
		WithContext(ctx).
		Model(&dbmodels.ResourceLock{}).
		Where("resource_id = ?", rec.ResourceID).
		Where("acquired_at < ?", rec.AcquiredAt.Add(-staleAfter)).
		Updates(map[string]interface{}{
			"token":       rec.Token,
			"acquired_at": rec.AcquiredAt,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (i impl) Delete(ctx context.Context, resourceID, token string) error {
	err := i.db.
		WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Where("token = ?", token).
		Delete(&dbmodels.ResourceLock{}).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) Get(ctx context.Context, resourceID string) (*dbmodels.ResourceLock, error) {
	rec := dbmodels.ResourceLock{}
	err := i.db.
		WithContext(ctx).
		Where("resource_id = ?", resourceID).
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

func (i impl) DeleteStale(ctx context.Context, staleBefore time.Time) (count int64, err error) {
	tx := i.db.
		WithContext(ctx).
		Where("acquired_at < ?", staleBefore).
		Delete(&dbmodels.ResourceLock{})
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}
