package yagptclient

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	yandexgptclient "github.com/sheeiavellie/go-yandexgpt"
	log "github.com/sirupsen/logrus"
)

const defaultTimeout = 30 * time.Second

var ErrEmptyAnswer = errors.New("API YandexGPT вернуло пустой ответ")

type Provider interface {
	GenerateByPromtAndText(ctx context.Context, promt, text string) (generatedText string, err error)
}

type impl struct {
	client    *yandexgptclient.YandexGPTClient
	catalogID string
	timeout   time.Duration
}

// NewClient timeout ограничивает один запрос, ответ GPT входит во время удержания блокировки сессии
func NewClient(token, catalog string, timeout time.Duration) Provider {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return impl{
		client:    yandexgptclient.NewYandexGPTClientWithIAMToken(token),
		catalogID: catalog,
		timeout:   timeout,
	}
}

func (i impl) GenerateByPromtAndText(ctx context.Context, promt, text string) (string, error) {
	request := yandexgptclient.YandexGPTRequest{
		ModelURI: yandexgptclient.MakeModelURI(i.catalogID, yandexgptclient.YandexGPTModelLite),
		CompletionOptions: yandexgptclient.YandexGPTCompletionOptions{
			Stream:      false,
			Temperature: 0.3,
			MaxTokens:   2000,
		},
		Messages: []yandexgptclient.YandexGPTMessage{
			{
				Role: yandexgptclient.YandexGPTMessageRoleSystem,
				Text: promt,
			},
			{
				Role: yandexgptclient.YandexGPTMessageRoleUser,
				Text: text,
			},
		},
	}

	reqCtx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()
	start := time.Now()
	response, err := i.client.CreateRequest(reqCtx, request)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return "", errors.Wrapf(err, "превышено время ожидания ответа YandexGPT (%v)", i.timeout)
		}
		return "", errors.Wrap(err, "Ошибка при отправке запроса на генерацию в API YandexGPT")
	}
	log.
		WithField("latency_sec", time.Since(start).Seconds()).
		Debug("получен ответ YandexGPT")
	if len(response.Result.Alternatives) == 0 {
		return "", ErrEmptyAnswer
	}
	generated := strings.TrimSpace(response.Result.Alternatives[0].Message.Text)
	if generated == "" {
		return "", ErrEmptyAnswer
	}
	return generated, nil
}
