package initializers

import (
	"ai-interview-backend/config"
	"ai-interview-backend/db"
	masaihandler "ai-interview-backend/lib/ai/masai"
	mockprovider "ai-interview-backend/lib/ai/mock"
	speechclient "ai-interview-backend/lib/ai/speech"
	staticquestions "ai-interview-backend/lib/ai/static-questions"
	gpthandler "ai-interview-backend/lib/gpt"
	ailogstore "ai-interview-backend/lib/gpt/store"
	yagptclient "ai-interview-backend/lib/gpt/yagpt-client"
	interviewhandler "ai-interview-backend/lib/interview"
	sessionstore "ai-interview-backend/lib/interview/session-store"
	initchecker "ai-interview-backend/lib/utils/init-checker"
	"ai-interview-backend/lib/utils/lock"
	dblockstore "ai-interview-backend/lib/utils/lock/db-lock-store"
	redislockstore "ai-interview-backend/lib/utils/lock/redis-lock-store"
	connectionhub "ai-interview-backend/lib/ws/hub/connection-hub"
	interviewapimodels "ai-interview-backend/models/api/interview"
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

var LockManager *lock.Manager

func InitLock() {
	var backend lock.Backend
	switch config.Conf.Lock.Backend {
	case config.BackendMemory:
		backend = lock.NewMemoryBackend()
	case config.BackendPostgres:
		backend = dblockstore.NewInstance(db.DB)
	case config.BackendRedis:
		backend = redislockstore.NewInstance(db.Redis)
	default:
		panic(config.ConfigurationError{Field: "Lock.Backend", Reason: "неизвестный тип хранилища: " + config.Conf.Lock.Backend})
	}
	LockManager = lock.NewManager(backend, config.Conf.LockStaleAfter())
	log.
		WithField("backend", config.Conf.Lock.Backend).
		WithField("stale_after", LockManager.StaleAfter().String()).
		Info("Блокировки сессий инициализированы")
}

func newSessionStore() sessionstore.Provider {
	switch config.Conf.Store.Backend {
	case config.BackendMemory:
		return sessionstore.NewMemoryInstance()
	case config.BackendPostgres:
		return sessionstore.NewInstance(db.DB)
	case config.BackendRedis:
		return sessionstore.NewRedisInstance(db.Redis, time.Duration(config.Conf.Redis.SessionTTL)*time.Second)
	}
	panic(config.ConfigurationError{Field: "Store.Backend", Reason: "неизвестный тип хранилища: " + config.Conf.Store.Backend})
}

func newQuestionProvider() interviewapimodels.QuestionProvider {
	switch config.Conf.AI.QuestionsProvider {
	case config.ProviderMock:
		return mockprovider.NewInstance()
	case config.ProviderStatic:
		return staticquestions.NewInstance(config.Conf.Interview.StaticQuestions, config.Conf.Interview.QuestionCount)
	case config.ProviderYandexGPT:
		client := yagptclient.NewClient(config.Conf.AI.YandexGPT.IAMToken, config.Conf.AI.YandexGPT.CatalogID,
			time.Duration(config.Conf.AI.YandexGPT.Timeout)*time.Second)
		ailogstore.Instance = ailogstore.NewInstance(db.DB)
		return gpthandler.NewHandler(client, ailogstore.Instance, config.Conf.Interview.QuestionCount)
	}
	panic(config.ConfigurationError{Field: "AI.QuestionsProvider", Reason: "неизвестный провайдер: " + config.Conf.AI.QuestionsProvider})
}

type speechProvider interface {
	interviewapimodels.SpeechToText
	interviewapimodels.TextToSpeech
}

func newSpeechProvider() speechProvider {
	switch config.Conf.AI.SpeechProvider {
	case config.ProviderMock:
		return mockprovider.NewInstance()
	case config.ProviderRemote:
		return speechclient.NewClient(config.Conf.AI.Speech.URL, config.Conf.AI.Speech.Voice,
			time.Duration(config.Conf.AI.Speech.Timeout)*time.Second)
	}
	panic(config.ConfigurationError{Field: "AI.SpeechProvider", Reason: "неизвестный провайдер: " + config.Conf.AI.SpeechProvider})
}

func newVisionAnalyzer() interviewapimodels.VisionAnalyzer {
	switch config.Conf.AI.VisionProvider {
	case config.ProviderMock:
		return mockprovider.NewInstance()
	case config.ProviderMasai:
		return masaihandler.NewHandler(config.Conf.AI.Masai.URL)
	}
	panic(config.ConfigurationError{Field: "AI.VisionProvider", Reason: "неизвестный провайдер: " + config.Conf.AI.VisionProvider})
}

func InitInterview(ctx context.Context) {
	speech := newSpeechProvider()
	deps := interviewhandler.Deps{
		Locker:    LockManager,
		Store:     newSessionStore(),
		Questions: newQuestionProvider(),
		STT:       speech,
		TTS:       speech,
		Vision:    newVisionAnalyzer(),
		Media:     InitMediaStorage(ctx),
		Events:    connectionhub.Instance,
		Notifier:  FinishNotifier,
	}
	initchecker.CheckInit(
		"LockManager", deps.Locker,
		"SessionStore", deps.Store,
		"ConnectionHub", deps.Events,
		"FinishNotifier", FinishNotifier,
	)
	interviewhandler.Instance = interviewhandler.NewHandler(deps)
	log.
		WithField("store", config.Conf.Store.Backend).
		WithField("questions", config.Conf.AI.QuestionsProvider).
		WithField("speech", config.Conf.AI.SpeechProvider).
		WithField("vision", config.Conf.AI.VisionProvider).
		Info("Сервис интервью инициализирован")
}
