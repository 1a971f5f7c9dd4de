package apiv1

import (
	mockprovider "ai-interview-backend/lib/ai/mock"
	filestorage "ai-interview-backend/lib/file-storage"
	ailogstore "ai-interview-backend/lib/gpt/store"
	interviewhandler "ai-interview-backend/lib/interview"
	sessionstore "ai-interview-backend/lib/interview/session-store"
	"ai-interview-backend/lib/utils/lock"
	apimodels "ai-interview-backend/models/api"
	interviewapimodels "ai-interview-backend/models/api/interview"
	dbmodels "ai-interview-backend/models/db"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type sessionResponse struct {
	Status  string                         `json:"status"`
	Code    string                         `json:"code"`
	Message string                         `json:"message"`
	Data    interviewapimodels.SessionView `json:"data"`
}

type testAiLog struct {
	recs []dbmodels.AiLog
}

func (l testAiLog) Save(ctx context.Context, rec dbmodels.AiLog) (string, error) {
	return rec.ID, nil
}

func (l testAiLog) FindBySession(ctx context.Context, sessionID string) ([]dbmodels.AiLog, error) {
	result := []dbmodels.AiLog{}
	for _, rec := range l.recs {
		if rec.SessionID == sessionID {
			result = append(result, rec)
		}
	}
	return result, nil
}

func newTestApp(t *testing.T) (*fiber.App, *lock.Manager) {
	mock := mockprovider.NewInstance()
	locker := lock.NewManager(lock.NewMemoryBackend(), time.Minute)
	interviewhandler.Instance = interviewhandler.NewHandler(interviewhandler.Deps{
		Locker:    locker,
		Store:     sessionstore.NewMemoryInstance(),
		Questions: mock,
		STT:       mock,
		TTS:       mock,
		Vision:    mock,
		Media:     filestorage.NewMemoryInstance(),
	})
	app := fiber.New()
	apiV1 := fiber.New()
	app.Mount("/api/v1", apiV1)
	InitInterviewRouters(apiV1)
	return app, locker
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, sessionResponse) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.Nil(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return do(t, app, req)
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, sessionResponse) {
	resp, err := app.Test(req, -1)
	require.Nil(t, err)
	defer resp.Body.Close()
	var result sessionResponse
	data, err := io.ReadAll(resp.Body)
	require.Nil(t, err)
	if len(data) > 0 {
		require.Nil(t, json.Unmarshal(data, &result), string(data))
	}
	return resp.StatusCode, result
}

func TestInterviewApi(t *testing.T) {
	app, locker := newTestApp(t)

	status, started := doJSON(t, app, fiber.MethodPost, "/api/v1/interview/sessions", interviewapimodels.StartRequest{
		JobID:  "job-1",
		UserID: "user-1",
	})
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "success", started.Status)
	require.Equal(t, dbmodels.InterviewCreated, started.Data.Status)
	require.NotNil(t, started.Data.CurrentQuestion)
	id := started.Data.ID
	base := "/api/v1/interview/sessions/" + id

	t.Run(`start validation check`, func(t *testing.T) {
		status, resp := doJSON(t, app, fiber.MethodPost, "/api/v1/interview/sessions", interviewapimodels.StartRequest{JobID: "job-1"})
		require.Equal(t, fiber.StatusBadRequest, status)
		require.Equal(t, apimodels.CodeBadRequest, resp.Code)
	})

	t.Run(`serve question check`, func(t *testing.T) {
		status, resp := doJSON(t, app, fiber.MethodPost, base+"/question", nil)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, dbmodels.InterviewLive, resp.Data.Status)
	})

	t.Run(`question audio check`, func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, base+"/question/audio", nil), -1)
		require.Nil(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		require.Equal(t, "audio/wav", resp.Header.Get(fiber.HeaderContentType))
	})

	t.Run(`text answer check`, func(t *testing.T) {
		status, resp := doJSON(t, app, fiber.MethodPost, base+"/answer", interviewapimodels.AnswerRequest{
			Modality: dbmodels.AnswerText,
			Content:  "Я Go разработчик",
		})
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, 1, resp.Data.CurrentQuestionIndex)
		require.Equal(t, "Я Go разработчик", resp.Data.Answers[0].Content)
	})

	t.Run(`duplicate answer check`, func(t *testing.T) {
		index := 0
		status, resp := doJSON(t, app, fiber.MethodPost, base+"/answer", interviewapimodels.AnswerRequest{
			QuestionIndex: &index,
			Modality:      dbmodels.AnswerText,
			Content:       "повтор",
		})
		require.Equal(t, fiber.StatusConflict, status)
		require.Equal(t, apimodels.CodeDuplicateAnswer, resp.Code)
	})

	t.Run(`multipart audio answer check`, func(t *testing.T) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		require.Nil(t, writer.WriteField("modality", string(dbmodels.AnswerAudio)))
		require.Nil(t, writer.WriteField("duration_sec", "7.5"))
		part, err := writer.CreateFormFile("file", "answer.wav")
		require.Nil(t, err)
		_, err = part.Write([]byte("RIFF"))
		require.Nil(t, err)
		require.Nil(t, writer.Close())

		req := httptest.NewRequest(fiber.MethodPost, base+"/answer", body)
		req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
		status, resp := do(t, app, req)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, 2, resp.Data.CurrentQuestionIndex)
		answer := resp.Data.Answers[1]
		require.Equal(t, mockprovider.TranscriptText, answer.Content)
		require.Equal(t, id+"/1/answer.wav", answer.ContentPath)
		require.Equal(t, 7.5, *answer.DurationSec)
	})

	t.Run(`non finite duration check`, func(t *testing.T) {
		for _, duration := range []string{"NaN", "Inf", "-Inf"} {
			body := &bytes.Buffer{}
			writer := multipart.NewWriter(body)
			require.Nil(t, writer.WriteField("modality", string(dbmodels.AnswerText)))
			require.Nil(t, writer.WriteField("content", "ответ"))
			require.Nil(t, writer.WriteField("duration_sec", duration))
			require.Nil(t, writer.Close())

			req := httptest.NewRequest(fiber.MethodPost, base+"/answer", body)
			req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
			status, resp := do(t, app, req)
			require.Equal(t, fiber.StatusBadRequest, status, duration)
			require.Equal(t, apimodels.CodeBadRequest, resp.Code)
		}

		status, resp := doJSON(t, app, fiber.MethodGet, base, nil)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, 2, resp.Data.CurrentQuestionIndex)
		require.Len(t, resp.Data.Answers, 2)
	})

	t.Run(`ai log check`, func(t *testing.T) {
		type aiLogResponse struct {
			Data []interviewapimodels.AiLogView `json:"data"`
		}
		getLog := func() (int, aiLogResponse) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, base+"/ai-log", nil), -1)
			require.Nil(t, err)
			defer resp.Body.Close()
			var result aiLogResponse
			require.Nil(t, json.NewDecoder(resp.Body).Decode(&result))
			return resp.StatusCode, result
		}

		status, result := getLog()
		require.Equal(t, fiber.StatusOK, status)
		require.Empty(t, result.Data)

		ailogstore.Instance = testAiLog{recs: []dbmodels.AiLog{
			{BaseModel: dbmodels.BaseModel{ID: "log-1"}, SessionID: id, Answer: `{"text":"Вопрос"}`, AiName: dbmodels.AiYaGptType},
		}}
		defer func() { ailogstore.Instance = nil }()
		status, result = getLog()
		require.Equal(t, fiber.StatusOK, status)
		require.Len(t, result.Data, 1)
		require.Equal(t, "log-1", result.Data[0].ID)
		require.Equal(t, dbmodels.AiYaGptType, result.Data[0].AiName)

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/interview/sessions/unknown/ai-log", nil), -1)
		require.Nil(t, err)
		require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run(`locked session check`, func(t *testing.T) {
		handle, err := locker.Acquire(context.TODO(), id)
		require.Nil(t, err)
		status, resp := doJSON(t, app, fiber.MethodPost, base+"/abort", nil)
		require.Equal(t, fiber.StatusLocked, status)
		require.Equal(t, apimodels.CodeResourceLocked, resp.Code)
		require.Nil(t, handle.Release(context.TODO()))
	})

	t.Run(`finish and abort check`, func(t *testing.T) {
		status, resp := doJSON(t, app, fiber.MethodPost, base+"/answer", interviewapimodels.AnswerRequest{
			Modality: dbmodels.AnswerText,
			Content:  "последний ответ",
		})
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, dbmodels.InterviewFinished, resp.Data.Status)
		require.Nil(t, resp.Data.CurrentQuestion)

		status, resp = doJSON(t, app, fiber.MethodPost, base+"/abort", nil)
		require.Equal(t, fiber.StatusUnprocessableEntity, status)
		require.Equal(t, apimodels.CodeInvalidState, resp.Code)
	})

	t.Run(`get and list check`, func(t *testing.T) {
		status, resp := doJSON(t, app, fiber.MethodGet, base, nil)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, id, resp.Data.ID)

		req := httptest.NewRequest(fiber.MethodGet, "/api/v1/interview/sessions?job_id=job-1", nil)
		httpResp, err := app.Test(req, -1)
		require.Nil(t, err)
		require.Equal(t, fiber.StatusOK, httpResp.StatusCode)
		var list struct {
			Data []interviewapimodels.SessionView `json:"data"`
		}
		require.Nil(t, json.NewDecoder(httpResp.Body).Decode(&list))
		require.Len(t, list.Data, 1)

		status, resp = doJSON(t, app, fiber.MethodGet, "/api/v1/interview/sessions", nil)
		require.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run(`not found check`, func(t *testing.T) {
		status, resp := doJSON(t, app, fiber.MethodGet, "/api/v1/interview/sessions/unknown", nil)
		require.Equal(t, fiber.StatusNotFound, status)
		require.Equal(t, apimodels.CodeNotFound, resp.Code)
	})
}
