// Package session keeps the client-side transcript state: which sessions
// exist per agent/user pair and the messages exchanged in each. Everything
// lives in memory for the life of the process; the backend owns the durable
// copy. Access is single-goroutine (the UI loop), so there is no locking.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/sanjog-lama/adk-graph-ui/internal/api"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one finalized transcript entry. Assistant messages keep the
// full event history of their turn so later inspection can re-derive
// analytics or debug the raw stream.
type Message struct {
	Role         string
	Content      string
	Timestamp    time.Time
	FullResponse []api.Event
	IsAnalytics  bool
}

type Session struct {
	ID       string
	Created  time.Time
	Messages []Message
}

// Store maps "agent:user" keys to that pair's sessions.
type Store struct {
	sessions map[string]map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]map[string]*Session)}
}

func key(agent, user string) string { return agent + ":" + user }

// Get returns the session, or nil if unknown.
func (s *Store) Get(agent, user, sessionID string) *Session {
	return s.sessions[key(agent, user)][sessionID]
}

// Ensure returns the session, creating an empty one if needed.
func (s *Store) Ensure(agent, user, sessionID string) *Session {
	k := key(agent, user)
	byID := s.sessions[k]
	if byID == nil {
		byID = make(map[string]*Session)
		s.sessions[k] = byID
	}
	sess := byID[sessionID]
	if sess == nil {
		sess = &Session{ID: sessionID, Created: time.Now()}
		byID[sessionID] = sess
	}
	return sess
}

func (s *Store) Delete(agent, user, sessionID string) {
	delete(s.sessions[key(agent, user)], sessionID)
}

// IDs lists the known session IDs for a pair, unordered.
func (s *Store) IDs(agent, user string) []string {
	byID := s.sessions[key(agent, user)]
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	return ids
}

// Append adds a finalized message. Messages are never edited afterwards.
func (sess *Session) Append(m Message) {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	sess.Messages = append(sess.Messages, m)
}

// NewSessionID mints a fresh backend-compatible session identifier.
func NewSessionID() string {
	return uuid.NewString()
}
