package app

import (
	"sync"

	"github.com/Thailung128/whitefoxbot/internal/domain"
	"github.com/Thailung128/whitefoxbot/internal/ports"
)

// State is the conversational state of one session.
type State int

const (
	// StateIdle: no question, no spread.
	StateIdle State = iota
	// StateAwaitingQuestion: the user was prompted for a free-text question.
	StateAwaitingQuestion
	// StateSpreadChosen: question captured; SpreadID empty until picked.
	StateSpreadChosen
	// StateReading: the draw+interpret pipeline is running.
	StateReading
)

// Session holds the per-user conversation state. It is owned by one
// conversation and mutated only by the handler; the transport layer
// serializes events per chat, so no internal locking is needed.
type Session struct {
	State    State
	Question string
	SpreadID string
	Drawn    []domain.DrawnCard

	// recent outbound message refs, kept for best-effort cleanup on
	// "back to spreads". At most the two newest are remembered.
	recent []ports.MessageRef
}

// Reset clears all reading data, returning the session to idle.
func (s *Session) Reset() {
	*s = Session{}
}

func (s *Session) remember(ref ports.MessageRef) {
	s.recent = append(s.recent, ref)
	if len(s.recent) > 2 {
		s.recent = s.recent[len(s.recent)-2:]
	}
}

func (s *Session) takeRecent() []ports.MessageRef {
	refs := s.recent
	s.recent = nil
	return refs
}

// Store maps chat IDs to sessions, creating one on first contact.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// Get returns the session for chatID, creating it when absent.
func (st *Store) Get(chatID int64) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[chatID]
	if !ok {
		s = &Session{}
		st.sessions[chatID] = s
	}
	return s
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
