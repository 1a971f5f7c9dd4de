package dbmodels

import "time"

// ResourceLock маркер блокировки ресурса (сессии) на время одной операции
type ResourceLock struct {
	ResourceID string    `gorm:"primaryKey;type:varchar(255)" json:"resource_id"`
	Token      string    `gorm:"type:varchar(36)" json:"token"`
	AcquiredAt time.Time `gorm:"index" json:"acquired_at"`
}

func (r ResourceLock) IsStale(now time.Time, staleAfter time.Duration) bool {
	return now.Sub(r.AcquiredAt) > staleAfter
}
