package middleware

import (
	apimodels "ai-interview-backend/models/api"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// WithBodyLimit ограничение размера запроса, кроме путей с окончанием из skipSuffixes (загрузка файлов)
func WithBodyLimit(limit int64, skipSuffixes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, suffix := range skipSuffixes {
			if strings.HasSuffix(c.Path(), suffix) {
				return c.Next()
			}
		}
		if size := int64(c.Request().Header.ContentLength()); size > limit {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(apimodels.NewCodeError(apimodels.CodeBadRequest,
				fmt.Sprintf("превышен размер запроса, максимум %d байт", limit)))
		}
		return c.Next()
	}
}
