package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jawabu/ussd/internal/logging"
	"github.com/jawabu/ussd/pkg/domain"
	"github.com/jawabu/ussd/pkg/ports"
)

// Manager brackets every turn with exactly one session load and one
// session save against the Cache port. Sessions are keyed by subscriber,
// so a new conversation from the same subscriber picks up the stored
// record and the id-mismatch rules in StartTurn decide what survives.
type Manager struct {
	backend  ports.Cache
	prefix   string
	ttl      time.Duration
	stateTTL time.Duration
	logger   *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager and the histories it
// creates.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithStateTTL sets the expiry for saved history contexts.
func WithStateTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.stateTTL = ttl
	}
}

// NewManager creates a session manager persisting into backend. prefix
// namespaces every key; ttl is the session staleness window.
func NewManager(backend ports.Cache, prefix string, ttl time.Duration, opts ...Option) *Manager {
	m := &Manager{
		backend:  backend,
		prefix:   prefix,
		ttl:      ttl,
		stateTTL: 2 * ttl,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open loads the subscriber's session or creates a fresh one, applies the
// turn's identity to it, and builds the turn's navigation history.
func (m *Manager) Open(ctx context.Context, turn *domain.Turn) (*Session, *History, error) {
	sess, err := m.load(ctx, turn)
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		sess = New(m.ttl, turn.Msisdn, turn.SessionID)
	}
	sess.StartTurn(turn)

	hist := NewHistory(sess, m.backend, m.historyPrefix(turn.Msisdn), m.stateTTL, m.logger)
	return sess, hist, nil
}

// Close finalizes the turn: the history stack moves onto the session, the
// session clock is stamped, and the session save runs concurrently with
// the join of any pending history writes.
func (m *Manager) Close(ctx context.Context, sess *Session, hist *History) error {
	sess.Stack = hist.Stack()
	sess.Finalize()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hist.Wait()
		return nil
	})
	g.Go(func() error {
		return m.persist(ctx, sess)
	})
	return g.Wait()
}

func (m *Manager) load(ctx context.Context, turn *domain.Turn) (*Session, error) {
	data, err := m.backend.Get(ctx, m.sessionKey(turn.Msisdn))
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// A corrupt record is unrecoverable; start the subscriber over
		// instead of failing every subsequent turn.
		m.logger.Warn("discarding undecodable session", "msisdn", turn.Msisdn, "err", err)
		return nil, nil
	}
	sess.TTL = m.ttl
	return &sess, nil
}

func (m *Manager) persist(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	// Sessions outlive their staleness window in the cache so an expired
	// conversation can still be restored.
	if err := m.backend.Set(ctx, m.sessionKey(sess.Key.Msisdn), data, 2*m.ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (m *Manager) sessionKey(msisdn string) string {
	return m.prefix + ":" + msisdn
}

func (m *Manager) historyPrefix(msisdn string) string {
	return m.prefix + ":state:" + msisdn
}
