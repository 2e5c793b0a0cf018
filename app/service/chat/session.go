package chat

import (
	"sync"
	"time"
)

type sessionState string

const (
	stateConnecting sessionState = "connecting"
	stateOpen       sessionState = "open"
	stateClosing    sessionState = "closing"
	stateClosed     sessionState = "closed"
)

// session tracks one client connection's lifecycle. Priming happens at
// most once per session regardless of how many messages follow.
type session struct {
	id       string
	email    string
	remoteIP string

	mu           sync.Mutex
	state        sessionState
	primed       bool
	lastActivity time.Time
	msgWindow    []time.Time
}

func newSession(id, email, remoteIP string) *session {
	return &session{
		id:           id,
		email:        email,
		remoteIP:     remoteIP,
		state:        stateConnecting,
		lastActivity: time.Now(),
	}
}

func (s *session) setState(state sessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state
}

func (s *session) markPrimed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.primed {
		return false
	}

	s.primed = true

	return true
}

func (s *session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActivity = time.Now()
}

// allowMessage applies a sliding one-minute window to inbound messages.
func (s *session) allowMessage(perMinute int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-time.Minute)

	kept := s.msgWindow[:0]
	for _, t := range s.msgWindow {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	s.msgWindow = kept

	if len(s.msgWindow) >= perMinute {
		return false
	}

	s.msgWindow = append(s.msgWindow, now)
	s.lastActivity = now

	return true
}

func (s *session) info() ConnectionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	return ConnectionInfo{
		SessionID:    s.id,
		Email:        s.email,
		RemoteIP:     s.remoteIP,
		State:        string(s.state),
		Primed:       s.primed,
		LastActivity: s.lastActivity,
	}
}
