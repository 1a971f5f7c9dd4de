package mockprovider

import (
	interviewapimodels "ai-interview-backend/models/api/interview"
	dbmodels "ai-interview-backend/models/db"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Заглушки ИИ сервисов, возвращают фиксированные значения

const (
	QuestionLimit  = 3
	TranscriptText = "Текст ответа кандидата (заглушка)"
	Sentiment      = "neutral"
)

type Provider struct{}

func NewInstance() *Provider {
	return &Provider{}
}

func (p Provider) QuestionLimit(ctx context.Context, jobID string) (int, error) {
	return QuestionLimit, nil
}

func (p Provider) NextQuestion(ctx context.Context, req interviewapimodels.QuestionRequest) (dbmodels.InterviewQuestion, error) {
	return dbmodels.InterviewQuestion{
		ID:       uuid.NewString(),
		Text:     fmt.Sprintf("Вопрос №%v (заглушка)", req.Sequence+1),
		Sequence: req.Sequence,
		Type:     "open",
	}, nil
}

func (p Provider) Transcribe(ctx context.Context, audio io.Reader, fileName string) (string, error) {
	return TranscriptText, nil
}

func (p Provider) Synthesize(ctx context.Context, text string) (interviewapimodels.FileData, error) {
	return interviewapimodels.FileData{
		FileName:    "question.wav",
		ContentType: "audio/wav",
		Body:        []byte("RIFF"),
	}, nil
}

func (p Provider) AnalyzeVideo(ctx context.Context, req interviewapimodels.VideoAnalyzeRequest, video io.Reader) (interviewapimodels.VideoAnalyzeResult, error) {
	return interviewapimodels.VideoAnalyzeResult{
		RecognizedText: TranscriptText,
		Analysis: dbmodels.EmotionAnalysis{
			Emotions: map[string]float64{
				"neutral":   0.7,
				"happiness": 0.2,
				"surprise":  0.1,
			},
			Sentiment: Sentiment,
		},
	}, nil
}
