package ws

import (
	interviewhandler "ai-interview-backend/lib/interview"
	wsclient "ai-interview-backend/lib/ws/client"
	connectionhub "ai-interview-backend/lib/ws/hub/connection-hub"
	wsmodels "ai-interview-backend/models/ws"
	"context"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

func InitWs(router fiber.Router) {
	router.Get("/interview/:id", upgradeRequired, websocket.New(sessionHandler))
}

func upgradeRequired(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}
	ctx.Locals("sessionID", ctx.Params("id"))
	return ctx.Next()
}

// @Summary События сессии интервью
// @Tags Websocket
// @Description Смена статуса и прогресса сессии интервью
// @Param   id          path    string  true    "Идентификатор сессии"
// @Success 200 {object} wsmodels.ServerMessage
// @Failure 404
// @router /ws/interview/{id} [get]
func sessionHandler(c *websocket.Conn) {
	sessionID, _ := c.Locals("sessionID").(string)
	logger := log.WithField("session_id", sessionID)

	rec, err := interviewhandler.Instance.Get(context.Background(), sessionID)
	if err != nil {
		logger.WithError(err).Warn("подключение к несуществующей сессии интервью")
		_ = c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "session not found"),
			time.Now().Add(time.Second))
		return
	}

	client := wsclient.NewClient(sessionID, c)
	clientID := connectionhub.Instance.AddClient(sessionID, c)
	defer func() {
		connectionhub.Instance.DeleteClient(sessionID, clientID)
	}()
	// текущее состояние сразу после подключения
	connectionhub.Instance.SendMessage(wsmodels.ServerMessage{
		SessionID:            rec.ID,
		Time:                 time.Now().Format("02.01.2006 15:04:05"),
		Code:                 wsmodels.SessionStateCode,
		Msg:                  "Текущее состояние сессии",
		Status:               rec.Status,
		CurrentQuestionIndex: rec.CurrentQuestionIndex,
	})
	if rec.Status.IsTerminal() {
		connectionhub.Instance.SendClose(sessionID)
	}
	client.Dispatch()
}
