package initializers

import (
	"ai-interview-backend/config"
	"ai-interview-backend/db"
	"context"
)

func InitDBConnection() {
	err := db.Connect(config.Conf.Database.Host, config.Conf.Database.Port, config.Conf.Database.Name,
		config.Conf.Database.User, config.Conf.Database.Password, *config.Conf.Database.DebugMode, *config.Conf.Database.MigrateOnStart)
	if err != nil {
		panic(err.Error())
	}
}

func InitRedis(ctx context.Context) {
	err := db.ConnectRedis(ctx, config.Conf.Redis.Addr, config.Conf.Redis.Password, config.Conf.Redis.DB)
	if err != nil {
		panic(err.Error())
	}
}

// needDB БД нужна для хранилищ сессий/блокировок и лога запросов к GPT
func needDB() bool {
	return config.Conf.Store.Backend == config.BackendPostgres ||
		config.Conf.Lock.Backend == config.BackendPostgres ||
		config.Conf.AI.QuestionsProvider == config.ProviderYandexGPT
}

func needRedis() bool {
	return config.Conf.Store.Backend == config.BackendRedis ||
		config.Conf.Lock.Backend == config.BackendRedis
}
