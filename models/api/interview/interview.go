package interviewapimodels

import (
	dbmodels "ai-interview-backend/models/db"
	"math"
	"time"

	"github.com/pkg/errors"
)

type StartRequest struct {
	JobID  string `json:"job_id"`  // Идентификатор вакансии
	UserID string `json:"user_id"` // Идентификатор кандидата
}

func (r StartRequest) Validate() error {
	if r.JobID == "" {
		return errors.New("не указан идентификатор вакансии")
	}
	if r.UserID == "" {
		return errors.New("не указан идентификатор кандидата")
	}
	return nil
}

// AnswerRequest ответ кандидата
type AnswerRequest struct {
	QuestionIndex *int                    `json:"question_index,omitempty"` // номер вопроса, по умолчанию текущий
	Modality      dbmodels.AnswerModality `json:"modality"`                 // TEXT/AUDIO/VIDEO
	Content       string                  `json:"content"`                  // текст ответа
	DurationSec   *float64                `json:"duration_sec,omitempty"`   // длительность ответа
	Media         *FileData               `json:"-"`                        // аудио/видео файл ответа
}

func (r AnswerRequest) Validate() error {
	if !r.Modality.IsValid() {
		return errors.Errorf("неизвестный тип ответа: %v", r.Modality)
	}
	if r.QuestionIndex != nil && *r.QuestionIndex < 0 {
		return errors.New("некорректный номер вопроса")
	}
	if r.DurationSec != nil && (math.IsNaN(*r.DurationSec) || math.IsInf(*r.DurationSec, 0) || *r.DurationSec < 0) {
		return errors.New("некорректная длительность ответа")
	}
	if r.Modality == dbmodels.AnswerText && r.Content == "" {
		return errors.New("не заполнен текст ответа")
	}
	if r.Modality.IsMedia() && (r.Media == nil || len(r.Media.Body) == 0) {
		return errors.New("не передан файл ответа")
	}
	return nil
}

type SessionView struct {
	ID                   string                       `json:"id"`
	JobID                string                       `json:"job_id"`
	UserID               string                       `json:"user_id"`
	Status               dbmodels.InterviewStatus     `json:"status"`
	CurrentQuestionIndex int                          `json:"current_question_index"`
	QuestionLimit        int                          `json:"question_limit"`
	CurrentQuestion      *dbmodels.InterviewQuestion  `json:"current_question,omitempty"`
	Questions            []dbmodels.InterviewQuestion `json:"questions"`
	Answers              map[int]AnswerView           `json:"answers"`
	CreatedAt            time.Time                    `json:"created_at"`
	StartedAt            *time.Time                   `json:"started_at,omitempty"`
	FinishedAt           *time.Time                   `json:"finished_at,omitempty"`
}

type AnswerView struct {
	Modality    dbmodels.AnswerModality   `json:"modality"`
	Content     string                    `json:"content"`
	ContentPath string                    `json:"content_path,omitempty"`
	DurationSec *float64                  `json:"duration_sec,omitempty"`
	Analysis    *dbmodels.EmotionAnalysis `json:"analysis,omitempty"`
	SubmittedAt time.Time                 `json:"submitted_at"`
}

func ConvertSession(rec dbmodels.InterviewSession) SessionView {
	result := SessionView{
		ID:                   rec.ID,
		JobID:                rec.JobID,
		UserID:               rec.UserID,
		Status:               rec.Status,
		CurrentQuestionIndex: rec.CurrentQuestionIndex,
		QuestionLimit:        rec.QuestionLimit,
		Questions:            []dbmodels.InterviewQuestion{},
		Answers:              map[int]AnswerView{},
		CreatedAt:            rec.CreatedAt,
		StartedAt:            rec.StartedAt,
		FinishedAt:           rec.FinishedAt,
	}
	if !rec.Status.IsTerminal() {
		result.CurrentQuestion = rec.CurrentQuestion()
	}
	result.Questions = append(result.Questions, rec.Questions...)
	for seq, answer := range rec.Answers {
		result.Answers[seq] = AnswerView{
			Modality:    answer.Modality,
			Content:     answer.Content,
			ContentPath: answer.ContentPath,
			DurationSec: answer.DurationSec,
			Analysis:    answer.Analysis,
			SubmittedAt: answer.SubmittedAt,
		}
	}
	return result
}

func ConvertSessions(list []dbmodels.InterviewSession) []SessionView {
	result := make([]SessionView, 0, len(list))
	for _, rec := range list {
		result = append(result, ConvertSession(rec))
	}
	return result
}

// AiLogView запрос к ИИ в рамках сессии
type AiLogView struct {
	ID          string                `json:"id"`
	CreatedAt   time.Time             `json:"created_at"`
	RequestType dbmodels.AiReqestType `json:"request_type"`
	AiName      dbmodels.AiName       `json:"ai_name"`
	SysPromt    string                `json:"sys_promt"`
	UserPromt   string                `json:"user_promt"`
	Answer      string                `json:"answer"`
}

func ConvertAiLogs(list []dbmodels.AiLog) []AiLogView {
	result := make([]AiLogView, 0, len(list))
	for _, rec := range list {
		result = append(result, AiLogView{
			ID:          rec.ID,
			CreatedAt:   rec.CreatedAt,
			RequestType: rec.ReqestType,
			AiName:      rec.AiName,
			SysPromt:    rec.SysPromt,
			UserPromt:   rec.UserPromt,
			Answer:      rec.Answer,
		})
	}
	return result
}
