package sse

import (
	"encoding/json"
	"sync"
	"time"

	"outreachpilot/internal/logger"
)

// Manager fans engagement events out to the Server-Sent Event streams
// of the user whose email produced them.
type Manager struct {
	clients    map[string]map[chan []byte]bool // userID -> connection channels
	clientsMux sync.RWMutex
	closed     bool

	logger *logger.Logger
}

func NewManager(logger *logger.Logger) *Manager {
	return &Manager{
		clients: make(map[string]map[chan []byte]bool),
		logger:  logger,
	}
}

// AddClient registers a new stream for a user and returns its channel.
func (m *Manager) AddClient(userID string) chan []byte {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	if m.clients[userID] == nil {
		m.clients[userID] = make(map[chan []byte]bool)
	}

	channel := make(chan []byte, 10)
	m.clients[userID][channel] = true

	m.logger.Info("Added SSE client for user:", userID, "total clients:", len(m.clients[userID]))
	return channel
}

func (m *Manager) RemoveClient(userID string, channel chan []byte) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	userClients, exists := m.clients[userID]
	if !exists {
		return
	}
	if _, ok := userClients[channel]; !ok {
		return
	}

	delete(userClients, channel)
	close(channel)
	if len(userClients) == 0 {
		delete(m.clients, userID)
	}

	m.logger.Info("Removed SSE client for user:", userID)
}

// BroadcastToUser pushes one event to every stream the user has open.
// Streams whose buffer is full are skipped rather than blocked on; a
// missed live event is still visible in the analytics rollup.
func (m *Manager) BroadcastToUser(userID string, eventType string, data interface{}) {
	m.clientsMux.RLock()
	defer m.clientsMux.RUnlock()

	userClients, exists := m.clients[userID]
	if !exists {
		return
	}

	event := map[string]interface{}{
		"type": eventType,
		"data": data,
		"time": time.Now().Unix(),
	}
	jsonData, err := json.Marshal(event)
	if err != nil {
		m.logger.Error("Failed to marshal broadcast event:", err)
		return
	}

	for channel := range userClients {
		select {
		case channel <- jsonData:
		default:
			m.logger.Warn("Dropped SSE event for slow client of user:", userID)
		}
	}
}

// HasUserConnection reports whether a user has any open streams.
func (m *Manager) HasUserConnection(userID string) bool {
	m.clientsMux.RLock()
	defer m.clientsMux.RUnlock()
	return len(m.clients[userID]) > 0
}

// Close tears down every stream.
func (m *Manager) Close() {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	if m.closed {
		return
	}
	m.closed = true

	for userID, userClients := range m.clients {
		for channel := range userClients {
			close(channel)
		}
		delete(m.clients, userID)
	}
}
