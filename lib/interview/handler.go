package interviewhandler

import (
	sessionstore "ai-interview-backend/lib/interview/session-store"
	"ai-interview-backend/lib/utils/lock"
	interviewapimodels "ai-interview-backend/models/api/interview"
	dbmodels "ai-interview-backend/models/db"
	wsmodels "ai-interview-backend/models/ws"
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	QuestionsProviderName = "questions"
	SpeechProviderName    = "speech"
	VisionProviderName    = "vision"
	StorageProviderName   = "storage"
)

type Provider interface {
	Start(ctx context.Context, jobID, userID string) (dbmodels.InterviewSession, error)
	ServeQuestion(ctx context.Context, id string) (dbmodels.InterviewSession, error)
	SubmitAnswer(ctx context.Context, id string, data interviewapimodels.AnswerRequest) (dbmodels.InterviewSession, error)
	Abort(ctx context.Context, id string) (dbmodels.InterviewSession, error)
	Get(ctx context.Context, id string) (dbmodels.InterviewSession, error)
	FindByJob(ctx context.Context, jobID string) ([]dbmodels.InterviewSession, error)
	SynthesizeQuestion(ctx context.Context, id string) (interviewapimodels.FileData, error)
}

// EventPublisher получатель событий сессии (websocket)
type EventPublisher interface {
	SendMessage(msg wsmodels.ServerMessage)
	// SendClose после завершения сессии событий больше не будет
	SendClose(sessionID string)
}

// FinishNotifier уведомление о завершении интервью
type FinishNotifier interface {
	NotifyFinished(rec dbmodels.InterviewSession)
}

var Instance Provider

type Deps struct {
	Locker    *lock.Manager
	Store     sessionstore.Provider
	Questions interviewapimodels.QuestionProvider
	STT       interviewapimodels.SpeechToText
	TTS       interviewapimodels.TextToSpeech
	Vision    interviewapimodels.VisionAnalyzer
	Media     interviewapimodels.MediaStorage
	Events    EventPublisher
	Notifier  FinishNotifier
	Clock     func() time.Time
}

func NewHandler(deps Deps) Provider {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &impl{
		locker:    deps.Locker,
		store:     deps.Store,
		questions: deps.Questions,
		stt:       deps.STT,
		tts:       deps.TTS,
		vision:    deps.Vision,
		media:     deps.Media,
		events:    deps.Events,
		notifier:  deps.Notifier,
		now:       clock,
	}
}

type impl struct {
	locker    *lock.Manager
	store     sessionstore.Provider
	questions interviewapimodels.QuestionProvider
	stt       interviewapimodels.SpeechToText
	tts       interviewapimodels.TextToSpeech
	vision    interviewapimodels.VisionAnalyzer
	media     interviewapimodels.MediaStorage
	events    EventPublisher
	notifier  FinishNotifier
	now       func() time.Time
}

func (i impl) getLogger(sessionID string) *log.Entry {
	logger := log.WithField("handler", "interview")
	if sessionID != "" {
		logger = logger.WithField("session_id", sessionID)
	}
	return logger
}

func (i impl) Start(ctx context.Context, jobID, userID string) (result dbmodels.InterviewSession, err error) {
	if jobID == "" || userID == "" {
		return result, errors.Wrap(ErrInvalidArgument, "не указана вакансия или кандидат")
	}
	id := uuid.NewString()
	err = i.locker.WithLock(ctx, id, func(ctx context.Context, handle *lock.Handle) error {
		limit, err := i.questions.QuestionLimit(ctx, jobID)
		if err != nil {
			return newProviderError(QuestionsProviderName, err)
		}
		if limit <= 0 {
			return newProviderError(QuestionsProviderName, errors.Errorf("для вакансии %v нет вопросов", jobID))
		}
		question, err := i.questions.NextQuestion(ctx, interviewapimodels.QuestionRequest{
			SessionID: id,
			JobID:     jobID,
			Sequence:  0,
		})
		if err != nil {
			return newProviderError(QuestionsProviderName, err)
		}
		question.Sequence = 0

		rec := dbmodels.InterviewSession{
			BaseModel: dbmodels.BaseModel{
				ID:        id,
				CreatedAt: i.now().UTC(),
			},
			JobID:                jobID,
			UserID:               userID,
			Status:               dbmodels.InterviewCreated,
			CurrentQuestionIndex: 0,
			QuestionLimit:        limit,
			Questions:            dbmodels.InterviewQuestions{question},
			Answers:              dbmodels.InterviewAnswers{},
		}
		if err = i.commit(ctx, handle, rec); err != nil {
			return err
		}
		result = rec
		return nil
	})
	if err != nil {
		return dbmodels.InterviewSession{}, err
	}
	i.getLogger(id).
		WithField("job_id", jobID).
		WithField("question_limit", result.QuestionLimit).
		Info("сессия интервью создана")
	i.publish(result, wsmodels.SessionCreatedCode, "Сессия интервью создана")
	return result, nil
}

func (i impl) ServeQuestion(ctx context.Context, id string) (result dbmodels.InterviewSession, err error) {
	changed := false
	err = i.locker.WithLock(ctx, id, func(ctx context.Context, handle *lock.Handle) error {
		rec, err := i.getRec(ctx, id)
		if err != nil {
			return err
		}
		if rec.Status.IsTerminal() {
			return errors.Wrapf(ErrInvalidState, "статус %v", rec.Status)
		}
		if rec.Status == dbmodels.InterviewCreated {
			if err = i.moveTo(&rec, dbmodels.InterviewLive); err != nil {
				return err
			}
			if err = i.commit(ctx, handle, rec); err != nil {
				return err
			}
			changed = true
		}
		result = rec
		return nil
	})
	if err != nil {
		return dbmodels.InterviewSession{}, err
	}
	if changed {
		i.publish(result, wsmodels.SessionLiveCode, "Интервью началось")
	}
	return result, nil
}

func (i impl) SubmitAnswer(ctx context.Context, id string, data interviewapimodels.AnswerRequest) (result dbmodels.InterviewSession, err error) {
	if err = data.Validate(); err != nil {
		return result, errors.Wrap(ErrInvalidArgument, err.Error())
	}
	err = i.locker.WithLock(ctx, id, func(ctx context.Context, handle *lock.Handle) error {
		rec, err := i.getRec(ctx, id)
		if err != nil {
			return err
		}
		if rec.Status.IsTerminal() {
			return errors.Wrapf(ErrInvalidState, "статус %v", rec.Status)
		}
		target := rec.CurrentQuestionIndex
		if data.QuestionIndex != nil {
			target = *data.QuestionIndex
		}
		if _, ok := rec.Answers[target]; ok {
			return errors.Wrapf(ErrDuplicateAnswer, "вопрос %v", target)
		}
		if target != rec.CurrentQuestionIndex || target >= len(rec.Questions) {
			return errors.Wrapf(ErrInvalidState, "вопрос %v еще не задан", target)
		}

		if rec.Status == dbmodels.InterviewCreated {
			if err = i.moveTo(&rec, dbmodels.InterviewLive); err != nil {
				return err
			}
		}
		uploaded := []string{}
		submission, err := i.buildSubmission(ctx, rec.ID, target, data, &uploaded)
		if err != nil {
			i.removeMedia(rec.ID, uploaded)
			return err
		}
		if rec.Answers == nil {
			rec.Answers = dbmodels.InterviewAnswers{}
		}
		rec.Answers[target] = submission
		rec.CurrentQuestionIndex++

		if rec.CurrentQuestionIndex >= rec.QuestionLimit {
			if err = i.moveTo(&rec, dbmodels.InterviewFinished); err != nil {
				i.removeMedia(rec.ID, uploaded)
				return err
			}
		} else {
			question, err := i.questions.NextQuestion(ctx, interviewapimodels.QuestionRequest{
				SessionID: rec.ID,
				JobID:     rec.JobID,
				Sequence:  rec.CurrentQuestionIndex,
				History:   history(rec),
			})
			if err != nil {
				i.removeMedia(rec.ID, uploaded)
				return newProviderError(QuestionsProviderName, err)
			}
			question.Sequence = rec.CurrentQuestionIndex
			rec.Questions = append(rec.Questions, question)
		}

		if err = i.commit(ctx, handle, rec); err != nil {
			i.removeMedia(rec.ID, uploaded)
			return err
		}
		result = rec
		return nil
	})
	if err != nil {
		return dbmodels.InterviewSession{}, err
	}

	i.getLogger(id).
		WithField("current_question_index", result.CurrentQuestionIndex).
		WithField("status", result.Status).
		Info("ответ кандидата принят")
	if result.Status == dbmodels.InterviewFinished {
		i.publish(result, wsmodels.SessionFinishedCode, "Интервью завершено")
		if i.notifier != nil {
			i.notifier.NotifyFinished(result)
		}
	} else {
		i.publish(result, wsmodels.AnswerAcceptedCode, fmt.Sprintf("Получен ответ на вопрос %v", result.CurrentQuestionIndex))
	}
	return result, nil
}

func (i impl) Abort(ctx context.Context, id string) (result dbmodels.InterviewSession, err error) {
	changed := false
	err = i.locker.WithLock(ctx, id, func(ctx context.Context, handle *lock.Handle) error {
		rec, err := i.getRec(ctx, id)
		if err != nil {
			return err
		}
		if rec.Status == dbmodels.InterviewAborted {
			result = rec
			return nil
		}
		if err = i.moveTo(&rec, dbmodels.InterviewAborted); err != nil {
			return err
		}
		if err = i.commit(ctx, handle, rec); err != nil {
			return err
		}
		changed = true
		result = rec
		return nil
	})
	if err != nil {
		return dbmodels.InterviewSession{}, err
	}
	if changed {
		i.getLogger(id).Info("интервью прервано")
		i.publish(result, wsmodels.SessionAbortedCode, "Интервью прервано")
	}
	return result, nil
}

func (i impl) Get(ctx context.Context, id string) (dbmodels.InterviewSession, error) {
	return i.getRec(ctx, id)
}

func (i impl) FindByJob(ctx context.Context, jobID string) ([]dbmodels.InterviewSession, error) {
	list, err := i.store.FindByJobID(ctx, jobID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка сессий интервью")
	}
	return list, nil
}

func (i impl) SynthesizeQuestion(ctx context.Context, id string) (result interviewapimodels.FileData, err error) {
	rec, err := i.getRec(ctx, id)
	if err != nil {
		return result, err
	}
	question := rec.CurrentQuestion()
	if rec.Status.IsTerminal() || question == nil {
		return result, errors.Wrapf(ErrInvalidState, "статус %v", rec.Status)
	}
	result, err = i.tts.Synthesize(ctx, question.Text)
	if err != nil {
		return result, newProviderError(SpeechProviderName, err)
	}
	return result, nil
}

func (i impl) getRec(ctx context.Context, id string) (dbmodels.InterviewSession, error) {
	rec, err := i.store.GetByID(ctx, id)
	if err != nil {
		return dbmodels.InterviewSession{}, errors.Wrap(err, "ошибка получения сессии интервью")
	}
	if rec == nil {
		return dbmodels.InterviewSession{}, errors.Wrapf(ErrNotFound, "id %v", id)
	}
	return rec.Clone(), nil
}

// moveTo переход статуса, недопустимый переход - ErrInvalidState
func (i impl) moveTo(rec *dbmodels.InterviewSession, next dbmodels.InterviewStatus) error {
	if !rec.Status.CanMoveTo(next) {
		return errors.Wrapf(ErrInvalidState, "переход %v -> %v недопустим", rec.Status, next)
	}
	now := i.now().UTC()
	switch next {
	case dbmodels.InterviewLive:
		if rec.StartedAt == nil {
			rec.StartedAt = &now
		}
	case dbmodels.InterviewFinished, dbmodels.InterviewAborted:
		rec.FinishedAt = &now
	}
	rec.Status = next
	return nil
}

// commit единственная запись сессии, только пока блокировка принадлежит операции
func (i impl) commit(ctx context.Context, handle *lock.Handle, rec dbmodels.InterviewSession) error {
	if err := handle.Check(ctx); err != nil {
		i.getLogger(rec.ID).
			WithError(err).
			Warn("блокировка сессии утеряна, результат операции не сохранен")
		return err
	}
	if err := i.store.Save(ctx, rec); err != nil {
		return errors.Wrap(err, "ошибка сохранения сессии интервью")
	}
	return nil
}

// buildSubmission сохраняет файл ответа и получает его расшифровку, uploaded пополняется путями загруженных файлов
func (i impl) buildSubmission(ctx context.Context, sessionID string, sequence int, data interviewapimodels.AnswerRequest, uploaded *[]string) (result dbmodels.AnswerSubmission, err error) {
	result = dbmodels.AnswerSubmission{
		Modality:    data.Modality,
		Content:     data.Content,
		DurationSec: data.DurationSec,
		SubmittedAt: i.now().UTC(),
	}
	if !data.Modality.IsMedia() {
		return result, nil
	}

	path, err := i.media.UploadAnswer(ctx, sessionID, sequence, *data.Media)
	if err != nil {
		return result, newProviderError(StorageProviderName, err)
	}
	*uploaded = append(*uploaded, path)
	result.ContentPath = path

	switch data.Modality {
	case dbmodels.AnswerAudio:
		text, err := i.stt.Transcribe(ctx, bytes.NewReader(data.Media.Body), data.Media.FileName)
		if err != nil {
			return result, newProviderError(SpeechProviderName, err)
		}
		if text != "" {
			result.Content = text
		}
	case dbmodels.AnswerVideo:
		analyzed, err := i.vision.AnalyzeVideo(ctx, interviewapimodels.VideoAnalyzeRequest{
			SessionID: sessionID,
			Sequence:  sequence,
			FileName:  data.Media.FileName,
		}, bytes.NewReader(data.Media.Body))
		if err != nil {
			return result, newProviderError(VisionProviderName, err)
		}
		if analyzed.RecognizedText != "" {
			result.Content = analyzed.RecognizedText
		}
		analysis := analyzed.Analysis
		for name, file := range analyzed.Attachments {
			if file.FileName == "" {
				file.FileName = name
			}
			attachmentPath, err := i.media.UploadAnswer(ctx, sessionID, sequence, file)
			if err != nil {
				return result, newProviderError(StorageProviderName, err)
			}
			*uploaded = append(*uploaded, attachmentPath)
			if analysis.Attachments == nil {
				analysis.Attachments = map[string]string{}
			}
			analysis.Attachments[name] = attachmentPath
		}
		result.Analysis = &analysis
	}
	return result, nil
}

// removeMedia удаление файлов неподтвержденного ответа, ошибки только логируются
func (i impl) removeMedia(sessionID string, paths []string) {
	for _, path := range paths {
		err := i.media.DeleteAnswer(context.Background(), path)
		if err != nil {
			i.getLogger(sessionID).
				WithField("path", path).
				WithError(err).
				Warn("ошибка удаления файла ответа")
		}
	}
}

func (i impl) publish(rec dbmodels.InterviewSession, code wsmodels.EventCode, msg string) {
	if i.events == nil {
		return
	}
	i.events.SendMessage(wsmodels.ServerMessage{
		SessionID:            rec.ID,
		Time:                 i.now().Format("02.01.2006 15:04:05"),
		Code:                 code,
		Msg:                  msg,
		Status:               rec.Status,
		CurrentQuestionIndex: rec.CurrentQuestionIndex,
	})
	if rec.Status.IsTerminal() {
		i.events.SendClose(rec.ID)
	}
}

func history(rec dbmodels.InterviewSession) []interviewapimodels.QuestionAnswer {
	result := make([]interviewapimodels.QuestionAnswer, 0, len(rec.Answers))
	for _, question := range rec.Questions {
		answer, ok := rec.Answers[question.Sequence]
		if !ok {
			continue
		}
		result = append(result, interviewapimodels.QuestionAnswer{
			Question: question.Text,
			Answer:   answer.Content,
		})
	}
	return result
}
