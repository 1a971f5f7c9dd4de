package connectionhub

import (
	"context"
	"time"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

// Conn часть *websocket.Conn, используемая хабом
type Conn interface {
	WriteJSON(v interface{}) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
}

const sendBufferSize = 16

type clientSession struct {
	conn Conn

	// Outbound mesages, buffered.
	sendCh chan any
	stop   func()
}

func newSession(conn Conn) clientSession {
	ctx, cancelFn := context.WithCancel(context.TODO())
	sess := clientSession{
		stop:   cancelFn,
		conn:   conn,
		sendCh: make(chan any, sendBufferSize),
	}
	go sess.startSend(ctx)
	return sess
}

func (s clientSession) startSend(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.flush()
			s.close()
			return
		case msg := <-s.sendCh:
			err := s.send(msg)
			if err != nil {
				log.WithError(err).Error("ошибка отправки сообщения")
			}
		}
	}
}

// flush отправка сообщений, поставленных в очередь до остановки
func (s clientSession) flush() {
	for {
		select {
		case msg := <-s.sendCh:
			if err := s.send(msg); err != nil {
				log.WithError(err).Debug("ошибка отправки сообщения при закрытии")
				return
			}
		default:
			return
		}
	}
}

// offer неблокирующая постановка в очередь, при переполнении сообщение отбрасывается
func (s clientSession) offer(msg any) bool {
	select {
	case s.sendCh <- msg:
		return true
	default:
		return false
	}
}

func (s clientSession) send(msg interface{}) error {
	if s.conn == nil {
		return nil
	}
	if err := s.conn.WriteJSON(msg); err != nil {
		return err
	}
	log.Debugf("отправлено сообщение: %+v", msg)
	return nil
}

func (s clientSession) close() {
	if s.conn == nil {
		return
	}
	err := s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	if err != nil {
		log.WithError(err).Debug("cant close")
	}
}
