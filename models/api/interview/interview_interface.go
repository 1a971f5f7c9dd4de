package interviewapimodels

import (
	dbmodels "ai-interview-backend/models/db"
	"context"
	"io"
)

// Внешние ИИ сервисы, используемые при проведении интервью.
// Реализация выбирается настройками config.Conf.AI.*Provider

type QuestionProvider interface {
	// QuestionLimit кол-во вопросов в интервью по вакансии
	QuestionLimit(ctx context.Context, jobID string) (int, error)
	// NextQuestion следующий вопрос с учетом истории ответов
	NextQuestion(ctx context.Context, req QuestionRequest) (dbmodels.InterviewQuestion, error)
}

type SpeechToText interface {
	Transcribe(ctx context.Context, audio io.Reader, fileName string) (text string, err error)
}

type TextToSpeech interface {
	Synthesize(ctx context.Context, text string) (result FileData, err error)
}

type VisionAnalyzer interface {
	AnalyzeVideo(ctx context.Context, req VideoAnalyzeRequest, video io.Reader) (result VideoAnalyzeResult, err error)
}

// MediaStorage хранилище файлов с ответами кандидатов
type MediaStorage interface {
	UploadAnswer(ctx context.Context, sessionID string, sequence int, file FileData) (path string, err error)
	GetAnswer(ctx context.Context, path string) (FileData, error)
	DeleteAnswer(ctx context.Context, path string) error
}

type QuestionRequest struct {
	SessionID string
	JobID     string
	Sequence  int              // номер запрашиваемого вопроса
	History   []QuestionAnswer // заданные вопросы и ответы кандидата
}

type QuestionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type VideoAnalyzeRequest struct {
	SessionID string
	Sequence  int
	FileName  string
}

type VideoAnalyzeResult struct {
	RecognizedText string
	Analysis       dbmodels.EmotionAnalysis
	Attachments    map[string]FileData // графики эмоций/амплитуды голоса
}

type FileData struct {
	FileName    string
	ContentType string
	Body        []byte
}
