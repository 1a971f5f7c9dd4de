package initializers

import (
	"ai-interview-backend/config"
	filestorage "ai-interview-backend/lib/file-storage"
	interviewapimodels "ai-interview-backend/models/api/interview"
	s3client "ai-interview-backend/s3"
	"context"

	log "github.com/sirupsen/logrus"
)

// InitMediaStorage хранилище файлов ответов, без настроек S3 файлы хранятся в памяти процесса
func InitMediaStorage(ctx context.Context) interviewapimodels.MediaStorage {
	if config.Conf.S3.Endpoint == "" {
		log.Warn("S3 не настроен, файлы ответов хранятся в памяти")
		return filestorage.NewMemoryInstance()
	}
	minioClient, err := s3client.NewClient()
	if err != nil {
		panic(err.Error())
	}
	if err = s3client.MakeBucket(ctx, minioClient, config.Conf.S3.BucketName); err != nil {
		panic(err.Error())
	}
	log.Info("S3 клиент успешно инициализирован")
	return filestorage.NewInstance(minioClient, config.Conf.S3.BucketName)
}
