package interviewnotify

import (
	"ai-interview-backend/lib/smtp"
	dbmodels "ai-interview-backend/models/db"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

const sender = "AI Interview"

// Notifier письмо о завершении интервью, отправляется в фоне и не влияет на результат операции
type Notifier struct {
	mailer smtp.Provider
	to     string
	wg     sync.WaitGroup
}

func NewNotifier(mailer smtp.Provider, to string) *Notifier {
	return &Notifier{
		mailer: mailer,
		to:     to,
	}
}

func (n *Notifier) NotifyFinished(rec dbmodels.InterviewSession) {
	if n.mailer == nil || n.to == "" {
		return
	}
	subject := fmt.Sprintf("Интервью %v завершено", rec.ID)
	message := BuildFinishedMessage(rec)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		err := n.mailer.SendEMail(sender, n.to, message, subject)
		if err != nil {
			log.
				WithField("session_id", rec.ID).
				WithError(err).
				Error("ошибка отправки уведомления о завершении интервью")
		}
	}()
}

// Wait ожидание отправки писем при остановке сервиса
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func BuildFinishedMessage(rec dbmodels.InterviewSession) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Вакансия: %v\r\n", rec.JobID))
	sb.WriteString(fmt.Sprintf("Кандидат: %v\r\n", rec.UserID))
	sb.WriteString(fmt.Sprintf("Ответов: %v из %v\r\n", len(rec.Answers), rec.QuestionLimit))
	if rec.StartedAt != nil && rec.FinishedAt != nil {
		sb.WriteString(fmt.Sprintf("Длительность: %v\r\n", rec.FinishedAt.Sub(*rec.StartedAt).Round(1e9)))
	}
	for _, question := range rec.Questions {
		answer, ok := rec.Answers[question.Sequence]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("\r\n%v. %v\r\n%v\r\n", question.Sequence+1, question.Text, answer.Content))
	}
	return sb.String()
}
