package config

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	t.Run(`defaults check`, func(t *testing.T) {
		conf, err := Load()
		require.Nil(t, err)
		require.Equal(t, 8080, conf.App.Port)
		require.Equal(t, BackendPostgres, conf.Lock.Backend)
		require.Equal(t, BackendPostgres, conf.Store.Backend)
		require.Equal(t, 60, conf.Lock.StaleSeconds)
		require.Equal(t, ProviderStatic, conf.AI.QuestionsProvider)
		require.Equal(t, ProviderMock, conf.AI.SpeechProvider)
		require.Equal(t, ProviderMock, conf.AI.VisionProvider)
		require.Equal(t, false, *conf.Swagger.Enabled)
	})

	t.Run(`env override check`, func(t *testing.T) {
		t.Setenv("LOCK_BACKEND", BackendRedis)
		t.Setenv("LOCK_STALE_SECONDS", "15")
		conf, err := Load()
		require.Nil(t, err)
		require.Equal(t, BackendRedis, conf.Lock.Backend)
		require.Equal(t, 15, conf.Lock.StaleSeconds)
	})

	t.Run(`validate check`, func(t *testing.T) {
		conf, err := Load()
		require.Nil(t, err)

		conf.Lock.Backend = "etcd"
		err = conf.Validate()
		var confErr ConfigurationError
		require.True(t, errors.As(err, &confErr))
		require.Equal(t, "Lock.Backend", confErr.Field)

		conf.Lock.Backend = BackendMemory
		conf.AI.QuestionsProvider = ProviderYandexGPT
		err = conf.Validate()
		require.True(t, errors.As(err, &confErr))
		require.Equal(t, "AI.YandexGPT", confErr.Field)

		conf.AI.QuestionsProvider = ProviderStatic
		conf.AI.VisionProvider = ProviderMasai
		err = conf.Validate()
		require.True(t, errors.As(err, &confErr))
		require.Equal(t, "AI.Masai.URL", confErr.Field)

		conf.AI.Masai.URL = "http://masai:7860"
		require.Nil(t, conf.Validate())
	})
}
