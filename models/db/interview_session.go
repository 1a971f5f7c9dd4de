package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

type InterviewStatus string

const (
	InterviewCreated  InterviewStatus = "CREATED"  // "Сессия создана"
	InterviewLive     InterviewStatus = "LIVE"     // "Интервью идет"
	InterviewFinished InterviewStatus = "FINISHED" // "Интервью завершено"
	InterviewAborted  InterviewStatus = "ABORTED"  // "Интервью прервано"
)

func (s InterviewStatus) IsTerminal() bool {
	return s == InterviewFinished || s == InterviewAborted
}

// CanMoveTo допустимые переходы: CREATED -> LIVE -> FINISHED, CREATED/LIVE -> ABORTED
func (s InterviewStatus) CanMoveTo(next InterviewStatus) bool {
	switch s {
	case InterviewCreated:
		return next == InterviewLive || next == InterviewAborted
	case InterviewLive:
		return next == InterviewLive || next == InterviewFinished || next == InterviewAborted
	}
	return false
}

type AnswerModality string

const (
	AnswerText  AnswerModality = "TEXT"
	AnswerAudio AnswerModality = "AUDIO"
	AnswerVideo AnswerModality = "VIDEO"
)

func (m AnswerModality) IsValid() bool {
	return m == AnswerText || m == AnswerAudio || m == AnswerVideo
}

func (m AnswerModality) IsMedia() bool {
	return m == AnswerAudio || m == AnswerVideo
}

// InterviewSession состояние сессии интервью
type InterviewSession struct {
	BaseModel
	JobID                string             `gorm:"type:varchar(36);index" json:"job_id"`
	UserID               string             `gorm:"type:varchar(36);index" json:"user_id"`
	Status               InterviewStatus    `gorm:"type:varchar(32)" json:"status"`
	CurrentQuestionIndex int                `json:"current_question_index"`
	QuestionLimit        int                `json:"question_limit"` // кол-во вопросов в интервью
	Questions            InterviewQuestions `gorm:"type:jsonb" json:"questions"`
	Answers              InterviewAnswers   `gorm:"type:jsonb" json:"answers"` // map[номер вопроса]ответ
	StartedAt            *time.Time         `json:"started_at"`
	FinishedAt           *time.Time         `json:"finished_at"`
}

func (s InterviewSession) CurrentQuestion() *InterviewQuestion {
	if s.CurrentQuestionIndex < len(s.Questions) {
		q := s.Questions[s.CurrentQuestionIndex]
		return &q
	}
	return nil
}

// Clone копия без общих срезов/карт, чтобы изменения не были видны другим читателям до сохранения
func (s InterviewSession) Clone() InterviewSession {
	result := s
	if s.Questions != nil {
		result.Questions = make(InterviewQuestions, len(s.Questions))
		copy(result.Questions, s.Questions)
	}
	if s.Answers != nil {
		result.Answers = make(InterviewAnswers, len(s.Answers))
		for k, v := range s.Answers {
			result.Answers[k] = v
		}
	}
	if s.StartedAt != nil {
		t := *s.StartedAt
		result.StartedAt = &t
	}
	if s.FinishedAt != nil {
		t := *s.FinishedAt
		result.FinishedAt = &t
	}
	return result
}

type InterviewQuestion struct {
	ID       string `json:"id"`       // Идентификатор вопроса
	Text     string `json:"text"`     // Текст вопроса
	Sequence int    `json:"sequence"` // Порядковый номер, с 0
	Type     string `json:"type"`     // Тип вопроса
}

type InterviewQuestions []InterviewQuestion

func (j InterviewQuestions) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *InterviewQuestions) Scan(value interface{}) error {
	data, err := scanBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &j)
}

type AnswerSubmission struct {
	Modality    AnswerModality   `json:"modality"`
	Content     string           `json:"content"`      // текст ответа или расшифровка аудио/видео
	ContentPath string           `json:"content_path"` // путь к файлу ответа в хранилище
	DurationSec *float64         `json:"duration_sec,omitempty"`
	Analysis    *EmotionAnalysis `json:"analysis,omitempty"`
	SubmittedAt time.Time        `json:"submitted_at"`
}

type EmotionAnalysis struct {
	Emotions  map[string]float64 `json:"emotions,omitempty"`
	Sentiment string             `json:"sentiment,omitempty"`
	// ссылки на графики, полученные от ИИ
	Attachments map[string]string `json:"attachments,omitempty"`
}

type InterviewAnswers map[int]AnswerSubmission

func (j InterviewAnswers) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *InterviewAnswers) Scan(value interface{}) error {
	data, err := scanBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &j)
}

func scanBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case nil:
		return []byte("null"), nil
	}
	return nil, errors.Errorf("неподдерживаемый тип значения jsonb: %T", value)
}
