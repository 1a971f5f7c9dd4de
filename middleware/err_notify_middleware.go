package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type errNotifyPayload struct {
	Status    int    `json:"status"`
	Code      string `json:"code,omitempty"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	SessionID string `json:"session_id,omitempty"`
	Error     string `json:"error"`
}

// ErrNotify отправка сведений об ошибках сервера (5xx) на addr, пустой addr отключает уведомления
func ErrNotify(addr string) fiber.Handler {
	client := &http.Client{Timeout: 5 * time.Second}
	return func(c *fiber.Ctx) error {
		err := c.Next()
		statusCode := c.Response().StatusCode()
		if addr == "" || statusCode < http.StatusInternalServerError {
			return err
		}

		var data struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if unmErr := json.Unmarshal(c.Response().Body(), &data); unmErr != nil {
			log.WithError(unmErr).Warn("error unmarshalling response body in middleware")
		}
		payload := errNotifyPayload{
			Status:    statusCode,
			Code:      data.Code,
			Method:    c.Method(),
			Path:      c.OriginalURL(),
			SessionID: c.Params("id"),
			Error:     data.Message,
		}
		if r := c.Route(); r != nil {
			payload.Path = r.Path
		}
		if payload.Error == "" {
			payload.Error = string(c.Response().Body())
		}

		go func() {
			body, _ := json.Marshal(payload)
			resp, reqErr := client.Post(addr, "application/json", bytes.NewReader(body))
			if reqErr != nil {
				log.WithError(reqErr).Warn("error sending error notification")
				return
			}
			resp.Body.Close()
		}()
		return err
	}
}
