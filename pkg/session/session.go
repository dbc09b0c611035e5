package session

import (
	"time"

	"github.com/jawabu/ussd/pkg/domain"
)

// Key identifies a conversation: the subscriber plus the gateway's
// conversation id. ID may be empty when the gateway implies continuation.
type Key struct {
	Msisdn string `json:"msisdn"`
	ID     string `json:"id,omitempty"`
}

func (k Key) String() string {
	return k.Msisdn + "/" + k.ID
}

// Session is the durable conversation state of one subscriber. It is
// loaded (or created) once per turn, mutated locally during dispatch, and
// persisted once at turn end. Sessions are never deleted explicitly; they
// expire through the cache TTL.
type Session struct {
	Key Key           `json:"key"`
	TTL time.Duration `json:"ttl"`

	CreatedAt  *time.Time `json:"created_at,omitempty"`
	AccessedAt *time.Time `json:"accessed_at,omitempty"`

	// Data is application state scoped to the conversation.
	Data map[string]any `json:"data,omitempty"`

	// State is the active screen's durable record.
	State *domain.ScreenState `json:"state,omitempty"`

	// Argv is the previous turn's full token vector, kept for delta
	// computation against the next turn.
	Argv *domain.ArgumentVector `json:"argv,omitempty"`

	// Stack is the persisted navigation history.
	Stack []NavID `json:"stack,omitempty"`

	// Restored holds the old key when an id mismatch rebound the session
	// to a new conversation. The dispatcher decides whether to reset.
	Restored *Key `json:"restored,omitempty"`

	started bool
	now     func() time.Time
}

// New creates a blank session for the subscriber.
func New(ttl time.Duration, msisdn, id string) *Session {
	return &Session{
		Key:  Key{Msisdn: msisdn, ID: id},
		TTL:  ttl,
		Data: make(map[string]any),
	}
}

// Age is the time since the last completed turn, zero for new sessions.
func (s *Session) Age() time.Duration {
	if s.IsNew() || s.AccessedAt == nil {
		return 0
	}
	return s.clock()().Sub(*s.AccessedAt)
}

// IsStale reports whether the session outlived its TTL. Always false
// while the session is new.
func (s *Session) IsStale() bool {
	return s.Age() >= s.TTL
}

// IsNew reports whether the session has not completed a turn since
// creation or reset.
func (s *Session) IsNew() bool {
	if s.AccessedAt == nil || s.CreatedAt == nil {
		return s.AccessedAt == nil && s.CreatedAt == nil
	}
	return s.AccessedAt.Equal(*s.CreatedAt)
}

// Reset clears all conversation state and restarts the session clock.
// Idempotent.
func (s *Session) Reset() {
	now := s.clock()()
	s.Data = make(map[string]any)
	s.State = nil
	s.Stack = nil
	s.Restored = nil
	s.CreatedAt, s.AccessedAt = &now, &now
}

// StartTurn applies the turn's identity to the session: it resolves the
// conversation-id handshake and staleness before dispatch runs.
//
// Exactly one of the session and the turn carrying a conversation id
// means the gateway switched id modes: start over. Differing ids (or an
// id-less stale session) mean a new conversation is reusing the
// subscriber's record: remember the old key, rebind, and age the session
// past its TTL so the dispatcher's restored check can see it. Otherwise
// this is a plain continuation and the clock advances.
func (s *Session) StartTurn(turn *domain.Turn) {
	if s.started {
		return
	}
	now := s.clock()()

	switch {
	case (s.Key.ID == "") != (turn.SessionID == ""):
		s.Reset()
	case turn.SessionID != s.Key.ID || (s.Key.ID == "" && s.IsStale()):
		old := s.Key
		s.Restored = &old
		s.Key = Key{Msisdn: s.Key.Msisdn, ID: turn.SessionID}
		aged := now.Add(-s.TTL - time.Second)
		if s.AccessedAt == nil || aged.Before(*s.AccessedAt) {
			s.AccessedAt = &aged
		}
	case s.Restored == nil:
		s.AccessedAt = &now
		if s.CreatedAt == nil {
			s.CreatedAt = &now
		}
	}
	s.started = true
}

// Finalize stamps the turn as completed.
func (s *Session) Finalize() {
	now := s.clock()()
	s.AccessedAt = &now
	s.started = false
}

// Get returns an application value stored on the session.
func (s *Session) Get(key string) any {
	return s.Data[key]
}

// Set stores an application value on the session.
func (s *Session) Set(key string, value any) {
	if s.Data == nil {
		s.Data = make(map[string]any)
	}
	s.Data[key] = value
}

func (s *Session) clock() func() time.Time {
	if s.now != nil {
		return s.now
	}
	return time.Now
}
