package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// exchange is one completed question/answer pair.
type exchange struct {
	UserMessage      string
	AssistantMessage string
}

// Manager keeps per-session conversation history in memory, capped at a
// fixed number of recent exchanges.
type Manager struct {
	mutex        sync.RWMutex
	sessions     map[string][]exchange
	maxExchanges int
}

// NewManager creates a Manager retaining up to maxExchanges recent
// question/answer pairs per session.
func NewManager(maxExchanges int) *Manager {
	if maxExchanges < 0 {
		maxExchanges = 0
	}
	return &Manager{
		sessions:     make(map[string][]exchange),
		maxExchanges: maxExchanges,
	}
}

// CreateSession allocates a new empty session and returns its ID.
func (m *Manager) CreateSession() string {
	id := uuid.New().String()

	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[id] = nil
	return id
}

// AddExchange appends one completed question/answer pair to the session,
// evicting the oldest pair when the cap is exceeded. Unknown session IDs are
// created implicitly.
func (m *Manager) AddExchange(sessionID, userMessage, assistantMessage string) {
	if sessionID == "" {
		return
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	history := append(m.sessions[sessionID], exchange{
		UserMessage:      userMessage,
		AssistantMessage: assistantMessage,
	})
	if len(history) > m.maxExchanges {
		history = history[len(history)-m.maxExchanges:]
	}
	m.sessions[sessionID] = history
}

// History renders the retained exchanges of a session as alternating
// "User:"/"Assistant:" lines. It returns an empty string for unknown or
// empty sessions.
func (m *Manager) History(sessionID string) string {
	if sessionID == "" {
		return ""
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()

	history := m.sessions[sessionID]
	if len(history) == 0 {
		return ""
	}

	lines := make([]string, 0, len(history))
	for _, ex := range history {
		lines = append(lines, fmt.Sprintf("User: %s\nAssistant: %s", ex.UserMessage, ex.AssistantMessage))
	}
	return strings.Join(lines, "\n")
}

// ClearSession drops all history for a session.
func (m *Manager) ClearSession(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}
