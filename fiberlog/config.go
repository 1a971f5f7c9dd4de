package fiberlog

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Config настройки middleware
type Config struct {
	Logger *logrus.Logger
	Tags   []string
	// SlowThreshold запросы дольше порога пишутся как warning, 0 - не проверяется.
	// Ответ с расшифровкой или анализом видео держит блокировку сессии все это время.
	SlowThreshold time.Duration
}

var ConfigDefault = Config{
	Tags: []string{
		TagStatus,
		TagLatency,
		TagMethod,
		TagPath,
		TagIP,
		TagError,
	},
}
