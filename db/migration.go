package db

import (
	dbmodels "ai-interview-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func AutoMigrateDB(db *gorm.DB) error {
	log.Info("Запуск миграций")
	if err := db.AutoMigrate(&dbmodels.InterviewSession{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры InterviewSession")
	}
	if err := db.AutoMigrate(&dbmodels.ResourceLock{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ResourceLock")
	}
	if err := db.AutoMigrate(&dbmodels.AiLog{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры AiLog")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
