package protocol

import (
	"strconv"
	"sync"
	"time"

	"github.com/atmouse-/gensokyoradio/internal/domain"
)

// greeting is sent once right after the connection is established.
const greeting = `{"message":"grInitialConnection"}`

// SessionState is the identification state of a Session.
type SessionState int

const (
	// StateUnidentified means no Welcome has been received yet.
	StateUnidentified SessionState = iota
	// StateIdentified means the server has assigned an identity.
	StateIdentified
)

// String returns a human-readable representation of the state.
func (s SessionState) String() string {
	switch s {
	case StateUnidentified:
		return "Unidentified"
	case StateIdentified:
		return "Identified"
	default:
		return "Unknown"
	}
}

// Session holds the server-assigned identity for one connection.
// It is safe for concurrent use: the connection loop writes it while workers
// may read it.
type Session struct {
	mu       sync.RWMutex
	id       int64
	state    SessionState
	encoding domain.WelcomeEncoding
	start    time.Time
}

// NewSession creates an unidentified session started now.
func NewSession() *Session {
	return &Session{start: time.Now()}
}

// SetIdentity overwrites the identity. Calling it again replaces the previous
// value; the last write wins.
func (s *Session) SetIdentity(id int64) {
	s.ApplyWelcome(domain.Welcome{ID: id, Encoding: domain.WelcomeText})
}

// ApplyWelcome records the identity from a Welcome event and remembers which
// encoding the server used, so replies are sent in the same form.
func (s *Session) ApplyWelcome(w domain.Welcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = w.ID
	s.encoding = w.Encoding
	s.state = StateIdentified
}

// Identity returns the current identity, 0 before any Welcome.
func (s *Session) Identity() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// State returns the identification state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Identified reports whether a Welcome has been applied.
func (s *Session) Identified() bool {
	return s.State() == StateIdentified
}

// StartTime returns when the session was created.
func (s *Session) StartTime() time.Time {
	return s.start
}

// Uptime returns the time elapsed since the session was created.
func (s *Session) Uptime() time.Duration {
	return time.Since(s.start)
}

// Reply builds the answer to a server ping, "pong:<identity>".
// After a JSON-encoded Welcome the reply is {"message":"pong","id":<identity>}.
func (s *Session) Reply() string {
	s.mu.RLock()
	id, enc := s.id, s.encoding
	s.mu.RUnlock()

	if enc == domain.WelcomeJSON {
		return `{"message":"pong","id":` + strconv.FormatInt(id, 10) + `}`
	}
	return "pong:" + strconv.FormatInt(id, 10)
}

// Greeting returns the frame sent once when the connection opens.
func (s *Session) Greeting() string {
	return greeting
}
