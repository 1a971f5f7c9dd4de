package sessionstore

import (
	dbmodels "ai-interview-backend/models/db"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func getStores(t *testing.T) map[string]Provider {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sessions.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.Nil(t, err)
	require.Nil(t, db.AutoMigrate(&dbmodels.InterviewSession{}))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return map[string]Provider{
		"memory":   NewMemoryInstance(),
		"postgres": NewInstance(db),
		"redis":    NewRedisInstance(client, time.Hour),
	}
}

func newSession(id, jobID string, createdAt time.Time) dbmodels.InterviewSession {
	duration := 12.5
	return dbmodels.InterviewSession{
		BaseModel: dbmodels.BaseModel{
			ID:        id,
			CreatedAt: createdAt,
		},
		JobID:         jobID,
		UserID:        "user-1",
		Status:        dbmodels.InterviewCreated,
		QuestionLimit: 3,
		Questions: dbmodels.InterviewQuestions{
			{ID: "q1", Text: "Расскажите о себе", Sequence: 0, Type: "open"},
		},
		Answers: dbmodels.InterviewAnswers{
			0: {Modality: dbmodels.AnswerText, Content: "привет", DurationSec: &duration},
		},
	}
}

func TestSessionStore(t *testing.T) {
	ctx := context.TODO()
	createdAt := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

	for name, store := range getStores(t) {
		t.Run(name+` Save/GetByID check`, func(t *testing.T) {
			rec, err := store.GetByID(ctx, "unknown")
			require.Nil(t, err)
			require.Nil(t, rec)

			require.Nil(t, store.Save(ctx, newSession("s1", "job-1", createdAt)))
			rec, err = store.GetByID(ctx, "s1")
			require.Nil(t, err)
			require.NotNil(t, rec)
			require.Equal(t, "job-1", rec.JobID)
			require.Equal(t, dbmodels.InterviewCreated, rec.Status)
			require.Equal(t, 3, rec.QuestionLimit)
			require.Len(t, rec.Questions, 1)
			require.Equal(t, "Расскажите о себе", rec.Questions[0].Text)
			require.Equal(t, "привет", rec.Answers[0].Content)
			require.Equal(t, 12.5, *rec.Answers[0].DurationSec)

			// полная замена
			updated := *rec
			updated.Status = dbmodels.InterviewLive
			updated.CurrentQuestionIndex = 1
			require.Nil(t, store.Save(ctx, updated))
			rec, err = store.GetByID(ctx, "s1")
			require.Nil(t, err)
			require.Equal(t, dbmodels.InterviewLive, rec.Status)
			require.Equal(t, 1, rec.CurrentQuestionIndex)

			require.NotNil(t, store.Save(ctx, dbmodels.InterviewSession{}))
		})

		t.Run(name+` UpdateStatus check`, func(t *testing.T) {
			require.Nil(t, store.Save(ctx, newSession("s2", "job-2", createdAt)))
			require.Nil(t, store.UpdateStatus(ctx, "s2", dbmodels.InterviewAborted))
			rec, err := store.GetByID(ctx, "s2")
			require.Nil(t, err)
			require.Equal(t, dbmodels.InterviewAborted, rec.Status)
			require.Len(t, rec.Questions, 1)

			err = store.UpdateStatus(ctx, "unknown", dbmodels.InterviewAborted)
			require.True(t, errors.Is(err, ErrNotFound))
		})

		t.Run(name+` FindByJobID check`, func(t *testing.T) {
			require.Nil(t, store.Save(ctx, newSession("s4", "job-3", createdAt.Add(time.Minute))))
			require.Nil(t, store.Save(ctx, newSession("s3", "job-3", createdAt)))
			require.Nil(t, store.Save(ctx, newSession("s5", "job-4", createdAt)))

			list, err := store.FindByJobID(ctx, "job-3")
			require.Nil(t, err)
			require.Len(t, list, 2)
			require.Equal(t, "s3", list[0].ID)
			require.Equal(t, "s4", list[1].ID)

			// перенос на другую вакансию обновляет индекс
			moved := newSession("s4", "job-4", createdAt.Add(time.Minute))
			require.Nil(t, store.Save(ctx, moved))
			list, err = store.FindByJobID(ctx, "job-3")
			require.Nil(t, err)
			require.Len(t, list, 1)
			list, err = store.FindByJobID(ctx, "job-4")
			require.Nil(t, err)
			require.Len(t, list, 2)

			list, err = store.FindByJobID(ctx, "unknown")
			require.Nil(t, err)
			require.Len(t, list, 0)
		})
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	t.Run(`returned records do not share state check`, func(t *testing.T) {
		ctx := context.TODO()
		store := NewMemoryInstance()
		require.Nil(t, store.Save(ctx, newSession("s1", "job-1", time.Now())))

		rec, err := store.GetByID(ctx, "s1")
		require.Nil(t, err)
		rec.Answers[1] = dbmodels.AnswerSubmission{Content: "не сохранено"}
		rec.Questions[0].Text = "изменено"

		again, err := store.GetByID(ctx, "s1")
		require.Nil(t, err)
		require.Len(t, again.Answers, 1)
		require.Equal(t, "Расскажите о себе", again.Questions[0].Text)
	})
}
