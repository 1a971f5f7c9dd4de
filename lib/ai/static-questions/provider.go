package staticquestions

import (
	interviewapimodels "ai-interview-backend/models/api/interview"
	dbmodels "ai-interview-backend/models/db"
	"context"
	"fmt"

	"github.com/pkg/errors"
)

var DefaultQuestions = []string{
	"Расскажите о себе и своем опыте работы",
	"Почему вас заинтересовала эта вакансия?",
	"Расскажите о самом сложном проекте, в котором вы участвовали",
	"Как вы действуете, если не успеваете выполнить задачу в срок?",
	"Какие у вас ожидания от новой работы?",
}

type Provider struct {
	questions []string
	limit     int
}

// NewInstance limit ограничивает кол-во вопросов, 0 - все вопросы списка
func NewInstance(questions []string, limit int) *Provider {
	if len(questions) == 0 {
		questions = DefaultQuestions
	}
	if limit <= 0 || limit > len(questions) {
		limit = len(questions)
	}
	return &Provider{
		questions: questions,
		limit:     limit,
	}
}

func (p Provider) QuestionLimit(ctx context.Context, jobID string) (int, error) {
	return p.limit, nil
}

func (p Provider) NextQuestion(ctx context.Context, req interviewapimodels.QuestionRequest) (dbmodels.InterviewQuestion, error) {
	if req.Sequence < 0 || req.Sequence >= p.limit {
		return dbmodels.InterviewQuestion{}, errors.Errorf("вопрос №%v отсутствует в списке", req.Sequence+1)
	}
	return dbmodels.InterviewQuestion{
		ID:       fmt.Sprintf("static-%v", req.Sequence+1),
		Text:     p.questions[req.Sequence],
		Sequence: req.Sequence,
		Type:     "open",
	}, nil
}
