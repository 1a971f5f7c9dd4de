package interviewhandler

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotFound        = errors.New("сессия интервью не найдена")
	ErrInvalidState    = errors.New("операция недопустима в текущем статусе сессии")
	ErrDuplicateAnswer = errors.New("ответ на вопрос уже получен")
	ErrInvalidArgument = errors.New("некорректные параметры запроса")
)

// ProviderError ошибка внешнего сервиса (генерация вопросов, речь, анализ видео, хранилище файлов).
// Состояние сессии при этом не меняется.
type ProviderError struct {
	Provider string
	Err      error
}

func (e ProviderError) Error() string {
	return fmt.Sprintf("ошибка сервиса %v: %v", e.Provider, e.Err)
}

func (e ProviderError) Unwrap() error {
	return e.Err
}

func newProviderError(provider string, err error) error {
	return ProviderError{Provider: provider, Err: err}
}
