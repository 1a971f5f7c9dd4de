package filestorage

import (
	interviewapimodels "ai-interview-backend/models/api/interview"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	ctx := context.TODO()
	storage := NewMemoryInstance()

	t.Run(`object name check`, func(t *testing.T) {
		require.Equal(t, "s1/2/answer.webm", AnswerObjectName("s1", 2, "../../answer.webm"))
		require.Equal(t, "s1/0/answer", AnswerObjectName("s1", 0, ""))
	})

	t.Run(`upload get delete check`, func(t *testing.T) {
		body := []byte("audio")
		path, err := storage.UploadAnswer(ctx, "s1", 0, interviewapimodels.FileData{
			FileName:    "answer.wav",
			ContentType: "audio/wav",
			Body:        body,
		})
		require.Nil(t, err)
		require.Equal(t, "s1/0/answer.wav", path)
		body[0] = 'X'

		file, err := storage.GetAnswer(ctx, path)
		require.Nil(t, err)
		require.Equal(t, "audio", string(file.Body))
		require.Equal(t, "audio/wav", file.ContentType)

		require.Nil(t, storage.DeleteAnswer(ctx, path))
		_, err = storage.GetAnswer(ctx, path)
		require.ErrorIs(t, err, ErrFileNotFound)
		require.Nil(t, storage.DeleteAnswer(ctx, path))
	})
}
