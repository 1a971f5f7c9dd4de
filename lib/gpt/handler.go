package gpthandler

import (
	ailogstore "ai-interview-backend/lib/gpt/store"
	yagptclient "ai-interview-backend/lib/gpt/yagpt-client"
	interviewapimodels "ai-interview-backend/models/api/interview"
	dbmodels "ai-interview-backend/models/db"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	QuestionSysPromt = "Ты — нейросеть, проводишь интервью с кандидатом на вакансию. Задаешь по одному вопросу, учитывая предыдущие ответы кандидата."
	QuestionTemplate = `{
  "job_id":%q,
  "question_number":%v,
  "question_count":%v,
  "history":%v,
  "instruction":"Сформулируй следующий вопрос интервью. Не повторяй уже заданные вопросы. Формат ответа: смотри в answer_format, только json",
  "answer_format":{"id":"q1","text":"…","type":"open"}
}
`
)

// Provider генерация вопросов интервью через YandexGPT
type Provider struct {
	client        yagptclient.Provider
	logStore      ailogstore.Provider
	questionCount int
}

func NewHandler(client yagptclient.Provider, logStore ailogstore.Provider, questionCount int) *Provider {
	return &Provider{
		client:        client,
		logStore:      logStore,
		questionCount: questionCount,
	}
}

func (i Provider) QuestionLimit(ctx context.Context, jobID string) (int, error) {
	return i.questionCount, nil
}

func (i Provider) NextQuestion(ctx context.Context, req interviewapimodels.QuestionRequest) (result dbmodels.InterviewQuestion, err error) {
	history, err := json.Marshal(req.History)
	if err != nil {
		return result, errors.Wrap(err, "ошибка сериализации истории ответов")
	}
	userPromt := fmt.Sprintf(QuestionTemplate, req.JobID, req.Sequence+1, i.questionCount, string(history))
	answer, err := i.client.GenerateByPromtAndText(ctx, QuestionSysPromt, userPromt)
	if err != nil {
		log.
			WithField("session_id", req.SessionID).
			WithField("job_id", req.JobID).
			WithError(err).
			Error("ошибка генерации вопроса интервью через GPT")
		return result, err
	}
	i.saveLog(ctx, req, userPromt, answer)

	err = json.Unmarshal([]byte(trimJSON(answer)), &result)
	if err != nil {
		return result, errors.Wrapf(err, "ошибка декодирования json в структуру вопроса, json: %v", answer)
	}
	if strings.TrimSpace(result.Text) == "" {
		return result, errors.Errorf("GPT вернул пустой текст вопроса, json: %v", answer)
	}
	// идентификатор от GPT не уникален в рамках сессии
	result.ID = uuid.NewString()
	result.Sequence = req.Sequence
	if result.Type == "" {
		result.Type = "open"
	}
	return result, nil
}

func (i Provider) saveLog(ctx context.Context, req interviewapimodels.QuestionRequest, userPromt, answer string) {
	if i.logStore == nil {
		return
	}
	_, err := i.logStore.Save(ctx, dbmodels.AiLog{
		SysPromt:   QuestionSysPromt,
		UserPromt:  userPromt,
		Answer:     answer,
		JobID:      req.JobID,
		SessionID:  req.SessionID,
		ReqestType: dbmodels.AiInterviewQuestionType,
		AiName:     dbmodels.AiYaGptType,
	})
	if err != nil {
		log.
			WithField("session_id", req.SessionID).
			WithError(err).
			Warn("ошибка сохранения лога запроса к GPT")
	}
}

// trimJSON убирает markdown обрамление ```json ... ```
func trimJSON(answer string) string {
	answer = strings.TrimSpace(answer)
	answer = strings.TrimPrefix(answer, "```json")
	answer = strings.TrimPrefix(answer, "```")
	answer = strings.TrimSuffix(answer, "```")
	return strings.TrimSpace(answer)
}
