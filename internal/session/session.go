// Package session tracks per-identity conversational state: which
// multi-step form, if any, the caller is in the middle of, plus the scratch
// values that must survive across steps.
package session

import (
	"errors"
	"sync"
)

// ErrNoActiveMailbox is returned when a session's scratch holds no
// provisioned mailbox address.
var ErrNoActiveMailbox = errors.New("no active mailbox for session")

// State is the conversation position of one identity. No states other than
// these four are reachable.
type State int

const (
	Idle State = iota
	AwaitingBin
	AwaitingCardSpec
	AwaitingIdentitySpec
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingBin:
		return "awaiting_bin"
	case AwaitingCardSpec:
		return "awaiting_card_spec"
	case AwaitingIdentitySpec:
		return "awaiting_identity_spec"
	default:
		return "unknown"
	}
}

// Session is the conversational state of one identity. Callers must hold
// the session lock across a whole event: read, transition and any provider
// call the transition makes. Sessions for different identities are
// independent.
type Session struct {
	mu      sync.Mutex
	state   State
	mailbox string
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

func (s *Session) State() State         { return s.state }
func (s *Session) SetState(state State) { s.state = state }

// Reset returns the session to Idle. Scratch values survive a reset; the
// mailbox stays usable after the flow that provisioned it completes.
func (s *Session) Reset() { s.state = Idle }

func (s *Session) SetMailbox(address string) { s.mailbox = address }

func (s *Session) Mailbox() (string, error) {
	if s.mailbox == "" {
		return "", ErrNoActiveMailbox
	}
	return s.mailbox, nil
}

// Store holds sessions keyed by identity, creating them lazily at Idle.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewStore() *Store {
	return &Store{sessions: map[int64]*Session{}}
}

// Get returns the session for identity, creating it on first use. The
// returned session is the single instance for that identity; callers
// serialize on its lock.
func (s *Store) Get(identity int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[identity]
	if !ok {
		sess = &Session{}
		s.sessions[identity] = sess
	}
	return sess
}
