package connectionhub

import (
	wsmodels "ai-interview-backend/models/ws"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Provider подписчики событий сессий интервью, к одной сессии может быть подключено несколько клиентов
type Provider interface {
	AddClient(sessionID string, conn Conn) (clientID string)
	DeleteClient(sessionID, clientID string)
	SendMessage(msg wsmodels.ServerMessage)
	SendClose(sessionID string)
	IsConnected(sessionID string) bool
}

var Instance Provider

func Init() {
	Instance = NewInstance()
}

func NewInstance() Provider {
	return &impl{
		clients: map[string]map[string]clientSession{},
	}
}

type impl struct {
	mu      sync.RWMutex
	clients map[string]map[string]clientSession // map[sessionID]map[clientID]
}

func (i *impl) AddClient(sessionID string, conn Conn) string {
	clientID := uuid.NewString()
	i.mu.Lock()
	defer i.mu.Unlock()
	sessions, ok := i.clients[sessionID]
	if !ok {
		sessions = map[string]clientSession{}
		i.clients[sessionID] = sessions
	}
	sessions[clientID] = newSession(conn)
	return clientID
}

func (i *impl) DeleteClient(sessionID, clientID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	sessions, ok := i.clients[sessionID]
	if !ok {
		return
	}
	sess, ok := sessions[clientID]
	if !ok {
		return
	}
	sess.stop()
	delete(sessions, clientID)
	if len(sessions) == 0 {
		delete(i.clients, sessionID)
	}
}

func (i *impl) SendMessage(msg wsmodels.ServerMessage) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	for clientID, sess := range i.clients[msg.SessionID] {
		if !sess.offer(msg) {
			log.
				WithField("session_id", msg.SessionID).
				WithField("client_id", clientID).
				Warn("очередь сообщений клиента переполнена, событие пропущено")
		}
	}
}

// SendClose закрытие соединений сессии после отправки уже поставленных сообщений
func (i *impl) SendClose(sessionID string) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	for _, sess := range i.clients[sessionID] {
		sess.stop()
	}
}

func (i *impl) IsConnected(sessionID string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.clients[sessionID]) > 0
}
