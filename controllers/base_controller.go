package controllers

import (
	interviewhandler "ai-interview-backend/lib/interview"
	"ai-interview-backend/lib/utils/lock"
	apimodels "ai-interview-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	id := ctx.Params("id")
	if id == "" {
		return "", errors.New("не указан идентификатор")
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	logger := log.
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
	if id := ctx.Params("id"); id != "" {
		logger = logger.WithField("session_id", id)
	}
	return logger
}

// SendError ответ с http статусом и кодом, соответствующими ошибке
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, hMsg string) error {
	status, code := ErrorStatus(err)
	if status >= fiber.StatusInternalServerError {
		logger.WithError(err).Error(hMsg)
	} else {
		logger.WithError(err).Warn(hMsg)
	}
	if status == fiber.StatusInternalServerError {
		hMsg = "внутренняя ошибка сервера"
	}
	return ctx.Status(status).JSON(apimodels.NewCodeError(code, hMsg))
}

func ErrorStatus(err error) (status int, code string) {
	var providerErr interviewhandler.ProviderError
	switch {
	case errors.Is(err, lock.ErrResourceLocked):
		return fiber.StatusLocked, apimodels.CodeResourceLocked
	case errors.Is(err, interviewhandler.ErrNotFound):
		return fiber.StatusNotFound, apimodels.CodeNotFound
	case errors.Is(err, interviewhandler.ErrInvalidState):
		return fiber.StatusUnprocessableEntity, apimodels.CodeInvalidState
	case errors.Is(err, interviewhandler.ErrDuplicateAnswer):
		return fiber.StatusConflict, apimodels.CodeDuplicateAnswer
	case errors.Is(err, interviewhandler.ErrInvalidArgument):
		return fiber.StatusBadRequest, apimodels.CodeBadRequest
	case errors.As(err, &providerErr):
		return fiber.StatusBadGateway, apimodels.CodeProviderError
	}
	return fiber.StatusInternalServerError, apimodels.CodeInternal
}
