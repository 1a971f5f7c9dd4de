package filestorage

import (
	interviewapimodels "ai-interview-backend/models/api/interview"
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

var ErrFileNotFound = errors.New("файл не найден")

type impl struct {
	s3client   *minio.Client
	bucketName string
}

// NewInstance хранилище файлов ответов в S3
func NewInstance(s3client *minio.Client, bucketName string) interviewapimodels.MediaStorage {
	return &impl{
		s3client:   s3client,
		bucketName: bucketName,
	}
}

func (i impl) UploadAnswer(ctx context.Context, sessionID string, sequence int, file interviewapimodels.FileData) (string, error) {
	objectName := AnswerObjectName(sessionID, sequence, file.FileName)
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := i.s3client.PutObject(ctx, i.bucketName, objectName, bytes.NewReader(file.Body), int64(len(file.Body)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, "ошибка загрузки файла в S3")
	}
	return objectName, nil
}

func (i impl) GetAnswer(ctx context.Context, objectName string) (result interviewapimodels.FileData, err error) {
	obj, err := i.s3client.GetObject(ctx, i.bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return result, errors.Wrap(err, "ошибка получения файла из S3")
	}
	defer obj.Close()
	info, err := obj.Stat()
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return result, ErrFileNotFound
		}
		return result, errors.Wrap(err, "ошибка получения информации о файле")
	}
	body, err := io.ReadAll(obj)
	if err != nil {
		return result, errors.Wrap(err, "ошибка чтения файла из S3")
	}
	return interviewapimodels.FileData{
		FileName:    path.Base(objectName),
		ContentType: info.ContentType,
		Body:        body,
	}, nil
}

func (i impl) DeleteAnswer(ctx context.Context, objectName string) error {
	err := i.s3client.RemoveObject(ctx, i.bucketName, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrap(err, "ошибка удаления файла из S3")
	}
	return nil
}

// AnswerObjectName путь к файлу ответа: <session_id>/<номер вопроса>/<имя файла>
func AnswerObjectName(sessionID string, sequence int, fileName string) string {
	if fileName == "" {
		fileName = "answer"
	}
	return fmt.Sprintf("%v/%v/%v", sessionID, sequence, path.Base(fileName))
}
