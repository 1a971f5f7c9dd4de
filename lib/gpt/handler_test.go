package gpthandler

import (
	interviewapimodels "ai-interview-backend/models/api/interview"
	dbmodels "ai-interview-backend/models/db"
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	answer    string
	err       error
	userPromt string
}

func (f *fakeClient) GenerateByPromtAndText(ctx context.Context, promt, text string) (string, error) {
	f.userPromt = text
	return f.answer, f.err
}

type fakeLogStore struct {
	recs []dbmodels.AiLog
}

func (f *fakeLogStore) Save(ctx context.Context, rec dbmodels.AiLog) (string, error) {
	f.recs = append(f.recs, rec)
	return "log-id", nil
}

func (f *fakeLogStore) FindBySession(ctx context.Context, sessionID string) ([]dbmodels.AiLog, error) {
	return f.recs, nil
}

func TestNextQuestion(t *testing.T) {
	ctx := context.TODO()
	req := interviewapimodels.QuestionRequest{
		SessionID: "s1",
		JobID:     "job-1",
		Sequence:  1,
		History: []interviewapimodels.QuestionAnswer{
			{Question: "Расскажите о себе", Answer: "Я разработчик"},
		},
	}

	t.Run(`json answer check`, func(t *testing.T) {
		client := &fakeClient{answer: "```json\n{\"id\":\"q2\",\"text\":\"Какой ваш любимый язык?\",\"type\":\"open\"}\n```"}
		logStore := &fakeLogStore{}
		h := NewHandler(client, logStore, 3)

		limit, err := h.QuestionLimit(ctx, "job-1")
		require.Nil(t, err)
		require.Equal(t, 3, limit)

		q, err := h.NextQuestion(ctx, req)
		require.Nil(t, err)
		require.Equal(t, "Какой ваш любимый язык?", q.Text)
		require.Equal(t, 1, q.Sequence)
		require.NotEqual(t, "q2", q.ID)
		require.Contains(t, client.userPromt, "Я разработчик")
		require.Contains(t, client.userPromt, `"question_number":2`)

		require.Len(t, logStore.recs, 1)
		require.Equal(t, "s1", logStore.recs[0].SessionID)
		require.Equal(t, dbmodels.AiInterviewQuestionType, logStore.recs[0].ReqestType)
	})

	t.Run(`broken answer check`, func(t *testing.T) {
		h := NewHandler(&fakeClient{answer: "не json"}, nil, 3)
		_, err := h.NextQuestion(ctx, req)
		require.NotNil(t, err)

		h = NewHandler(&fakeClient{answer: `{"text":"  "}`}, nil, 3)
		_, err = h.NextQuestion(ctx, req)
		require.NotNil(t, err)
	})

	t.Run(`client error check`, func(t *testing.T) {
		expectedErr := errors.New("сервис недоступен")
		h := NewHandler(&fakeClient{err: expectedErr}, nil, 3)
		_, err := h.NextQuestion(ctx, req)
		require.Equal(t, expectedErr, err)
	})
}
