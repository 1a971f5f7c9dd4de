package ailogstore

import (
	dbmodels "ai-interview-backend/models/db"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestStore(t *testing.T) {
	ctx := context.TODO()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "ailog.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.Nil(t, err)
	require.Nil(t, db.AutoMigrate(&dbmodels.AiLog{}))
	store := NewInstance(db)

	newLog := func(sessionID, answer string, createdAt time.Time) dbmodels.AiLog {
		return dbmodels.AiLog{
			BaseModel:  dbmodels.BaseModel{CreatedAt: createdAt},
			SysPromt:   "system",
			UserPromt:  "user",
			Answer:     answer,
			SessionID:  sessionID,
			JobID:      "job-1",
			ReqestType: dbmodels.AiInterviewQuestionType,
			AiName:     dbmodels.AiYaGptType,
		}
	}
	createdAt := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

	t.Run(`Save check`, func(t *testing.T) {
		id, err := store.Save(ctx, newLog("s1", `{"text":"Вопрос 2"}`, createdAt.Add(time.Minute)))
		require.Nil(t, err)
		require.NotEmpty(t, id)

		var rec dbmodels.AiLog
		require.Nil(t, db.First(&rec, "id = ?", id).Error)
		require.Equal(t, "s1", rec.SessionID)
		require.Equal(t, `{"text":"Вопрос 2"}`, rec.Answer)

		_, err = store.Save(ctx, newLog("", "без сессии", createdAt))
		require.NotNil(t, err)
	})

	t.Run(`FindBySession check`, func(t *testing.T) {
		_, err := store.Save(ctx, newLog("s1", `{"text":"Вопрос 1"}`, createdAt))
		require.Nil(t, err)
		_, err = store.Save(ctx, newLog("s2", `{"text":"Чужой вопрос"}`, createdAt))
		require.Nil(t, err)

		list, err := store.FindBySession(ctx, "s1")
		require.Nil(t, err)
		require.Len(t, list, 2)
		require.Equal(t, `{"text":"Вопрос 1"}`, list[0].Answer)
		require.Equal(t, `{"text":"Вопрос 2"}`, list[1].Answer)

		list, err = store.FindBySession(ctx, "unknown")
		require.Nil(t, err)
		require.Empty(t, list)
	})
}
