package speechclient

import (
	interviewapimodels "ai-interview-backend/models/api/interview"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider клиент сервиса распознавания/синтеза речи.
// POST {url}/stt (multipart file) -> {"text": "..."}
// POST {url}/tts {"text": "...", "voice": "..."} -> аудио файл
type Provider struct {
	baseUrl string
	voice   string
	client  *http.Client
}

func NewClient(baseUrl, voice string, timeout time.Duration) *Provider {
	log.Infof("Инициализация сервиса речи: %v", baseUrl)
	return &Provider{
		baseUrl: baseUrl,
		voice:   voice,
		client:  &http.Client{Timeout: timeout},
	}
}

type sttResponse struct {
	Text string `json:"text"`
}

type ttsRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

func (p Provider) Transcribe(ctx context.Context, audio io.Reader, fileName string) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", err
	}
	if _, err = io.Copy(part, audio); err != nil {
		return "", err
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%v/stt", p.baseUrl), body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "ошибка запроса распознавания речи")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("сервис распознавания речи вернул статус %v", resp.StatusCode)
	}

	var result sttResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", errors.Wrap(err, "ошибка декодирования ответа распознавания речи")
	}
	return result.Text, nil
}

func (p Provider) Synthesize(ctx context.Context, text string) (result interviewapimodels.FileData, err error) {
	data, err := json.Marshal(ttsRequest{Text: text, Voice: p.voice})
	if err != nil {
		return result, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%v/tts", p.baseUrl), bytes.NewBuffer(data))
	if err != nil {
		return result, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return result, errors.Wrap(err, "ошибка запроса синтеза речи")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return result, errors.Errorf("сервис синтеза речи вернул статус %v", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, err
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/wav"
	}
	return interviewapimodels.FileData{
		FileName:    "question.wav",
		ContentType: contentType,
		Body:        body,
	}, nil
}
