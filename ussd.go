package ussd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jawabu/ussd/internal/logging"
	"github.com/jawabu/ussd/internal/metrics"
	"github.com/jawabu/ussd/pkg/domain"
	"github.com/jawabu/ussd/pkg/ports"
	"github.com/jawabu/ussd/pkg/router"
	"github.com/jawabu/ussd/pkg/screen"
	"github.com/jawabu/ussd/pkg/session"
)

// Config carries the engine's tunables. The zero value is completed with
// the defaults below.
type Config struct {
	// SessionKeyPrefix namespaces every cache key the engine writes.
	SessionKeyPrefix string

	// SessionTTL is the staleness window of a conversation.
	SessionTTL time.Duration

	// ScreenStateTTL is the expiry of saved back-navigation contexts.
	ScreenStateTTL time.Duration

	// MaxPageLength is the transport's page limit, response tag included.
	MaxPageLength int
}

// Engine defaults, matching common gateway limits.
const (
	DefaultSessionKeyPrefix = "ussd.app.session"
	DefaultSessionTTL       = 75 * time.Second
	DefaultScreenStateTTL   = 120 * time.Second
	DefaultMaxPageLength    = 182
)

func (c Config) withDefaults() Config {
	if c.SessionKeyPrefix == "" {
		c.SessionKeyPrefix = DefaultSessionKeyPrefix
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = DefaultSessionTTL
	}
	if c.ScreenStateTTL == 0 {
		c.ScreenStateTTL = DefaultScreenStateTTL
	}
	if c.MaxPageLength == 0 {
		c.MaxPageLength = DefaultMaxPageLength
	}
	return c
}

// App is the engine facade: one router, one cache, one session manager.
// It brackets every turn with the open/dispatch/close sequence so exactly
// one session load and one session save happen per turn.
type App struct {
	router   *router.Router
	cache    ports.Cache
	sessions *session.Manager
	cfg      Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures the App.
type Option func(*App)

// WithConfig replaces the default engine configuration.
func WithConfig(cfg Config) Option {
	return func(a *App) {
		a.cfg = cfg
	}
}

// WithLogger sets the application logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithMetrics registers and enables Prometheus instrumentation.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(a *App) {
		a.metrics = metrics.New(reg)
	}
}

// New wires an App from a configured router and a cache adapter.
func New(r *router.Router, cache ports.Cache, opts ...Option) (*App, error) {
	if r == nil {
		return nil, fmt.Errorf("router is required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cache is required")
	}

	a := &App{
		router: r,
		cache:  cache,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.cfg = a.cfg.withDefaults()

	if a.router.Entry() == "" {
		return nil, fmt.Errorf("router has no entry screen")
	}

	a.sessions = session.NewManager(
		cache,
		a.cfg.SessionKeyPrefix,
		a.cfg.SessionTTL,
		session.WithLogger(a.logger),
		session.WithStateTTL(a.cfg.ScreenStateTTL),
	)
	router.WithRunner(screen.NewRunner(a.cfg.MaxPageLength, a.logger))(r)
	return a, nil
}

// Handle runs one turn and returns the wire response ("CON <page>" or
// "END <page>"). Session and history are persisted before it returns; a
// dispatch error leaves the stored session untouched.
func (a *App) Handle(ctx context.Context, turn *domain.Turn) (string, error) {
	start := time.Now()

	sess, hist, err := a.sessions.Open(ctx, turn)
	if err != nil {
		a.metrics.ObserveTurn("error", time.Since(start))
		return "", err
	}
	if sess.Restored != nil {
		a.metrics.ObserveRestore()
	}

	out, err := a.router.Dispatch(ctx, turn, sess, hist)
	if err != nil {
		// Join pending history writes even on failure to avoid leaks.
		hist.Wait()
		a.metrics.ObserveTurn("error", time.Since(start))
		return "", err
	}

	if err := a.sessions.Close(ctx, sess, hist); err != nil {
		a.metrics.ObserveTurn("error", time.Since(start))
		return "", err
	}

	a.metrics.ObserveTurn(resultLabel(out), time.Since(start))
	return out, nil
}

// Close releases the underlying cache connection.
func (a *App) Close() error {
	return a.cache.Close()
}

// Config returns the effective engine configuration.
func (a *App) Config() Config {
	return a.cfg
}

func resultLabel(out string) string {
	tag, _, _ := strings.Cut(out, " ")
	return strings.ToLower(tag)
}
