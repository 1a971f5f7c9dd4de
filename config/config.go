package config

import (
	"fmt"
	"time"

	"github.com/gotify/configor"
)

var Conf *Configuration

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"

	ProviderMock      = "mock"
	ProviderStatic    = "static"
	ProviderYandexGPT = "yandexgpt"
	ProviderRemote    = "remote"
	ProviderMasai     = "masai"
)

type Configuration struct {
	App struct {
		ListenAddr    string `default:"" env:"APP_HOST"`
		Port          int    `default:"8080"  env:"APP_PORT"`
		BodyLimit     int    `default:"104857600" env:"APP_BODY_LIMIT"` // 100MB, файлы ответов
		JSONLimit     int    `default:"1048576" env:"APP_JSON_LIMIT"`   // 1MB, остальные запросы
		ErrNotifyURL  string `default:"" env:"APP_ERR_NOTIFY_URL"`
		SlowRequestMs int    `default:"5000" env:"APP_SLOW_REQUEST_MS"` // 0 - не отслеживать
	}
	Swagger struct {
		Enabled  *bool  `default:"false" env:"SWAGGER_ENABLED"`
		FilePath string `default:"./docs/swagger.json" env:"SWAGGER_FILE_PATH"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"ai-interview" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Redis struct {
		Addr       string `default:"127.0.0.1:6379" env:"REDIS_ADDR"`
		Password   string `default:"" env:"REDIS_PASSWORD"`
		DB         int    `default:"0" env:"REDIS_DB"`
		SessionTTL int    `default:"86400" env:"REDIS_SESSION_TTL"` // сек
	}
	Store struct {
		Backend string `default:"postgres" env:"STORE_BACKEND"` // memory/postgres/redis
	}
	Lock struct {
		Backend       string `default:"postgres" env:"LOCK_BACKEND"` // memory/postgres/redis
		StaleSeconds  int    `default:"60" env:"LOCK_STALE_SECONDS"`
		SweepInterval int    `default:"300" env:"LOCK_SWEEP_INTERVAL"` // сек, 0 - очистка отключена
	}
	Interview struct {
		QuestionCount   int      `default:"5" env:"INTERVIEW_QUESTION_COUNT"`
		StaticQuestions []string `yaml:"static_questions"`
	}
	AI struct {
		QuestionsProvider string `default:"static" env:"AI_QUESTIONS_PROVIDER"` // mock/static/yandexgpt
		SpeechProvider    string `default:"mock" env:"AI_SPEECH_PROVIDER"`      // mock/remote
		VisionProvider    string `default:"mock" env:"AI_VISION_PROVIDER"`      // mock/masai
		YandexGPT         struct {
			IAMToken  string `default:"" env:"YANDEX_GPT_IAM_TOKEN"`
			CatalogID string `default:"" env:"YANDEX_GPT_CATALOG_ID"`
			Timeout   int    `default:"30" env:"YANDEX_GPT_TIMEOUT"` // сек
		}
		Masai struct {
			URL string `default:"" env:"AI_MASAI_URL"`
		}
		Speech struct {
			URL     string `default:"" env:"AI_SPEECH_URL"`
			Voice   string `default:"alena" env:"AI_SPEECH_VOICE"`
			Timeout int    `default:"60" env:"AI_SPEECH_TIMEOUT"` // сек
		}
	}
	S3 struct {
		Endpoint        string `default:"" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		BucketName      string `default:"interview-answers" env:"S3_BUCKET_NAME"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
	}
	Notify struct {
		FinishedEmailTo string `default:"" env:"NOTIFY_FINISHED_EMAIL_TO"`
	}
}

// ConfigurationError ошибка конфигурации, допустима только при старте сервиса
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("ошибка конфигурации %v: %v", e.Field, e.Reason)
}

func (c Configuration) LockStaleAfter() time.Duration {
	return time.Duration(c.Lock.StaleSeconds) * time.Second
}

func (c Configuration) Validate() error {
	if c.Lock.StaleSeconds <= 0 {
		return ConfigurationError{Field: "Lock.StaleSeconds", Reason: "должно быть больше 0"}
	}
	if !isOneOf(c.Lock.Backend, BackendMemory, BackendPostgres, BackendRedis) {
		return ConfigurationError{Field: "Lock.Backend", Reason: "неизвестный тип хранилища: " + c.Lock.Backend}
	}
	if !isOneOf(c.Store.Backend, BackendMemory, BackendPostgres, BackendRedis) {
		return ConfigurationError{Field: "Store.Backend", Reason: "неизвестный тип хранилища: " + c.Store.Backend}
	}
	if c.Interview.QuestionCount <= 0 {
		return ConfigurationError{Field: "Interview.QuestionCount", Reason: "должно быть больше 0"}
	}
	if !isOneOf(c.AI.QuestionsProvider, ProviderMock, ProviderStatic, ProviderYandexGPT) {
		return ConfigurationError{Field: "AI.QuestionsProvider", Reason: "неизвестный провайдер: " + c.AI.QuestionsProvider}
	}
	if c.AI.QuestionsProvider == ProviderYandexGPT && (c.AI.YandexGPT.IAMToken == "" || c.AI.YandexGPT.CatalogID == "") {
		return ConfigurationError{Field: "AI.YandexGPT", Reason: "не заполнены IAMToken/CatalogID"}
	}
	if !isOneOf(c.AI.SpeechProvider, ProviderMock, ProviderRemote) {
		return ConfigurationError{Field: "AI.SpeechProvider", Reason: "неизвестный провайдер: " + c.AI.SpeechProvider}
	}
	if c.AI.SpeechProvider == ProviderRemote && c.AI.Speech.URL == "" {
		return ConfigurationError{Field: "AI.Speech.URL", Reason: "не заполнен адрес сервиса"}
	}
	if !isOneOf(c.AI.VisionProvider, ProviderMock, ProviderMasai) {
		return ConfigurationError{Field: "AI.VisionProvider", Reason: "неизвестный провайдер: " + c.AI.VisionProvider}
	}
	if c.AI.VisionProvider == ProviderMasai && c.AI.Masai.URL == "" {
		return ConfigurationError{Field: "AI.Masai.URL", Reason: "не заполнен адрес сервиса"}
	}
	return nil
}

func isOneOf(value string, variants ...string) bool {
	for _, v := range variants {
		if v == value {
			return true
		}
	}
	return false
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf, err := Load(configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}

func Load(files ...string) (*Configuration, error) {
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, files...)
	if err != nil {
		return nil, err
	}
	if err = conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}
