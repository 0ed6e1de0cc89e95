package session

import (
	"strings"
	"sync"
)

// Turn roles in conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one utterance in the rolling dialogue history.
type Turn struct {
	Role string
	Text string
}

// Session holds the conversational state for one websocket connection:
// the rolling dialogue history and the speaking flag that gates audio
// ingestion while a reply is playing out.
type Session struct {
	ID string

	mu       sync.Mutex
	history  []Turn
	speaking bool
}

// New creates an empty session.
func New(id string) *Session {
	return &Session{ID: id}
}

// AppendExchange records one completed user→assistant exchange.
func (s *Session) AppendExchange(user, assistant string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history,
		Turn{Role: RoleUser, Text: user},
		Turn{Role: RoleAssistant, Text: assistant},
	)
}

// History returns a copy of the full dialogue history.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}

// Prompt returns the trailing history to prime a model request: at most
// limit turns, front-truncated so the slice always begins with a
// user-authored turn. Returns nil when nothing usable remains.
func (s *Session) Prompt(limit int) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.history
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}

	// Truncation can leave an assistant turn at the front; drop any such
	// leading turns so the request starts on user speech.
	for len(turns) > 0 && turns[0].Role != RoleUser {
		turns = turns[1:]
	}
	if len(turns) == 0 {
		return nil
	}

	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// SetSpeaking marks whether the agent is currently emitting a reply.
func (s *Session) SetSpeaking(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speaking = on
}

// Speaking reports whether the agent is currently emitting a reply.
func (s *Session) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

// Transcript renders the history as plain text, one line per turn. Used for
// logging on session teardown.
func (s *Session) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	for _, t := range s.history {
		b.WriteString(t.Role)
		b.WriteString(": ")
		b.WriteString(t.Text)
		b.WriteString("\n")
	}
	return b.String()
}
