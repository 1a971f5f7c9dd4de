package masaihandler

import (
	"ai-interview-backend/lib/utils/lock"
	interviewapimodels "ai-interview-backend/models/api/interview"
	masaimodels "ai-interview-backend/models/api/masai"
	dbmodels "ai-interview-backend/models/db"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/r3labs/sse/v2"
	log "github.com/sirupsen/logrus"
)

// Provider анализ видео ответов кандидата (распознавание речи, эмоции)
type Provider struct {
	baseUrl string
	client  *http.Client
	busy    *atomic.Bool
}

func NewHandler(baseUrl string) *Provider {
	log.Infof("Инициализация ИИ: %v, модель: %v", baseUrl, "masai")
	return &Provider{
		baseUrl: baseUrl,
		client:  &http.Client{},
		busy:    &atomic.Bool{},
	}
}

func (i Provider) getLogger() *log.Entry {
	return log.
		WithField("ai", "masai")
}

func (i Provider) AnalyzeVideo(ctx context.Context, req interviewapimodels.VideoAnalyzeRequest, video io.Reader) (result interviewapimodels.VideoAnalyzeResult, err error) {
	now := time.Now()
	response, err := i.QueryMasai(ctx, video, req.FileName)
	if err != nil {
		return result, err
	}
	i.getLogger().
		WithField("session_id", req.SessionID).
		WithField("sequence", req.Sequence).
		WithField("answer_duration_sec", time.Since(now).Seconds()).
		Info("Ответ AI на запрос QueryMasai")

	return ConvertResponse(response), nil
}

func (i Provider) QueryMasai(ctx context.Context, reader io.Reader, fileName string) (result masaimodels.GradioResponse, err error) {
	// лочим ресурсы
	if holder := lock.Resource.Holder(); holder != "" {
		i.getLogger().
			WithField("holder", holder).
			WithField("wait_count", lock.Resource.WaitCount()).
			Info("анализ видео ожидает освобождения ресурса")
	}
	if !lock.Resource.Acquire(ctx, "QueryMasai") {
		return result, errors.New("ошибка доступа к ресурсам - контекст завершен")
	}
	defer lock.Resource.Release("QueryMasai")

	logger := i.getLogger()
	videoPath, err := i.uploadVideo(ctx, reader, fileName)
	if err != nil {
		return result, errors.Wrap(err, "ошибка отправки видео файла на анализ")
	}
	logger.Info("Видео файл загружен, путь к файлу (VideoPath):", videoPath)

	eventID, err := i.submitJob(ctx, videoPath)
	if err != nil {
		return result, errors.Wrap(err, "ошибка запуска анализа видео файла")
	}
	logger.Info("Задание отправлено, идентификатор события (EventID):", eventID)

	data, err := i.listenResults(ctx, eventID)
	if err != nil {
		return result, errors.Wrap(err, "ошибка анализа видео файла")
	}

	var updates []masaimodels.GradioUpdate
	if err := json.Unmarshal(data, &updates); err != nil {
		return result, errors.Wrap(err, "ошибка сериализации ответа")
	}
	return masaimodels.GradioResponse{Elements: updates}, nil
}

func (i Provider) uploadVideo(ctx context.Context, reader io.Reader, fileName string) (videoPath string, err error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("files", fileName)
	if err != nil {
		return "", err
	}
	_, err = io.Copy(part, reader)
	if err != nil {
		return "", err
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%v/upload", i.baseUrl), body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := i.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("сервис вернул статус %v", resp.StatusCode)
	}

	var result []string
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if len(result) == 0 {
		return "", errors.New("сервис не вернул путь к файлу")
	}
	return result[0], nil
}

func (i Provider) submitJob(ctx context.Context, videoPath string) (string, error) {
	payload := map[string]interface{}{
		"data": []interface{}{
			map[string]interface{}{
				"video": map[string]interface{}{
					"path": videoPath,
					"meta": map[string]string{
						"_type": "gradio.FileData",
					},
				},
				"subtitles": nil,
			},
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%v/call/event_handler_submit", i.baseUrl), bytes.NewBuffer(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := i.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	var r map[string]string
	if err := json.Unmarshal(body, &r); err != nil {
		return "", err
	}
	if r["event_id"] == "" {
		return "", errors.Errorf("сервис не вернул идентификатор события: %v", string(body))
	}
	return r["event_id"], nil
}

func (i Provider) listenResults(ctx context.Context, eventID string) (result []byte, err error) {
	// флаг занятости ИИ
	i.busy.Store(true)
	defer i.busy.Store(false)

	client := sse.NewClient(fmt.Sprintf("%v/call/event_handler_submit/%s", i.baseUrl, eventID))
	client.Connection = i.client

	var event sse.Event
	err = client.SubscribeRawWithContext(ctx, func(msg *sse.Event) {
		if msg == nil {
			return
		}
		i.getLogger().Infof("Событие: %v", string(msg.Event))
		if string(msg.Event) == "complete" || string(msg.Event) == "error" {
			event = *msg
		}
	})
	if err != nil {
		return nil, err
	}

	switch string(event.Event) {
	case "error":
		return nil, errors.New(string(event.Data))
	case "complete":
		return event.Data, nil
	default:
		return nil, errors.Errorf("получено неизвестное событие: %v", string(event.Event))
	}
}

func (i Provider) IsVideoAiAvailable() bool {
	return !i.busy.Load()
}

// ConvertResponse распознанный текст и графики анализа
func ConvertResponse(response masaimodels.GradioResponse) (result interviewapimodels.VideoAnalyzeResult) {
	result.RecognizedText = response.GetRecognizedText()
	result.Analysis = dbmodels.EmotionAnalysis{
		Attachments: map[string]string{},
	}
	result.Attachments = map[string]interviewapimodels.FileData{}
	for k, elem := range response.Elements {
		name, ok := masaimodels.AttachmentName(k)
		if !ok {
			continue
		}
		p, ok := elem.ToPlotValue()
		if !ok {
			continue
		}
		contentType, body, err := p.ToByteArr()
		if err != nil {
			log.WithError(err).Warnf("ошибка разбора графика %v", name)
			continue
		}
		result.Attachments[name] = interviewapimodels.FileData{
			FileName:    name + ".png",
			ContentType: contentType,
			Body:        body,
		}
	}
	return result
}
