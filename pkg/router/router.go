// Package router resolves which screen handles a turn and drives the
// dispatch loop: argv delta evaluation, restored-session policy, redirect
// resolution against the navigation history, and the final wire response.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jawabu/ussd/internal/logging"
	"github.com/jawabu/ussd/pkg/domain"
	"github.com/jawabu/ussd/pkg/screen"
	"github.com/jawabu/ussd/pkg/session"
)

// maxHops bounds redirect resolution. Dispatch terminates by
// construction, but a screen redirecting in a cycle would otherwise spin
// forever; failing fast beats hanging a gateway request.
const maxHops = 32

// Factory builds a fresh screen instance for one invocation.
type Factory func() screen.Screen

type registration struct {
	factory Factory

	// restore opts the screen into surviving a mid-flow session restore
	// instead of being reset.
	restore bool

	entry bool
	home  bool
}

// Router owns the screen registry and dispatches turns. Construct one at
// startup, register screens, then share it; registration is not safe
// concurrently with dispatch.
type Router struct {
	name    string
	screens map[string]registration
	entry   string
	home    string
	runner  *screen.Runner
	logger  *slog.Logger
}

// Option configures the Router.
type Option func(*Router)

// WithLogger sets the dispatch logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithRunner replaces the default screen lifecycle runner.
func WithRunner(runner *screen.Runner) Option {
	return func(r *Router) {
		r.runner = runner
	}
}

// New creates a named router. The name namespaces screen registrations:
// a screen registered as "home" is addressable as ".home" or
// "<name>.home".
func New(name string, opts ...Option) *Router {
	r := &Router{
		name:    name,
		screens: make(map[string]registration),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.runner == nil {
		r.runner = screen.NewRunner(182, r.logger)
	}
	return r
}

// ScreenOption configures a registration.
type ScreenOption func(*registration)

// AsEntry marks the screen as the conversation entry point.
func AsEntry() ScreenOption {
	return func(reg *registration) {
		reg.entry = true
	}
}

// AsHome marks the screen as the home fallback for back-navigation.
func AsHome() ScreenOption {
	return func(reg *registration) {
		reg.home = true
	}
}

// WithRestore lets the screen keep a restored session's in-flight state
// instead of forcing a reset.
func WithRestore() ScreenOption {
	return func(reg *registration) {
		reg.restore = true
	}
}

// Register adds a screen under name. Names are local to the router and
// must be unique.
func (r *Router) Register(name string, factory Factory, opts ...ScreenOption) error {
	abs := r.name + "." + name
	if _, dup := r.screens[abs]; dup {
		return fmt.Errorf("screen %q already registered", abs)
	}
	reg := registration{factory: factory}
	for _, opt := range opts {
		opt(&reg)
	}
	r.screens[abs] = reg
	if reg.entry {
		r.entry = abs
	}
	if reg.home {
		r.home = abs
	}
	return nil
}

// MustRegister is Register for startup wiring; it panics on error.
func (r *Router) MustRegister(name string, factory Factory, opts ...ScreenOption) {
	if err := r.Register(name, factory, opts...); err != nil {
		panic(err)
	}
}

// Entry returns the registered entry screen name.
func (r *Router) Entry() string { return r.entry }

// Home returns the home fallback name; the entry screen doubles as home
// when none was registered.
func (r *Router) Home() string {
	if r.home != "" {
		return r.home
	}
	return r.entry
}

// Resolve turns a possibly relative screen name into the registry key.
// ".echo" and "echo" both resolve locally; a dotted name like
// "billing.invoice" is taken as already qualified.
func (r *Router) Resolve(name string) string {
	if strings.HasPrefix(name, ".") {
		return r.name + name
	}
	if !strings.Contains(name, ".") {
		return r.name + "." + name
	}
	return name
}

func (r *Router) lookup(name string) (registration, error) {
	reg, ok := r.screens[name]
	if !ok {
		return registration{}, fmt.Errorf("%w: %q", domain.ErrScreenNotFound, name)
	}
	return reg, nil
}

// Dispatch runs one turn against the session and history opened for it,
// returning the wire response ("CON <page>" or "END <page>").
func (r *Router) Dispatch(ctx context.Context, turn *domain.Turn, sess *session.Session, hist *session.History) (string, error) {
	args := r.evalArgv(turn, sess)

	// A restored session only keeps its in-flight state when the active
	// screen opts in and the subscriber dialed nothing new.
	if sess.Restored != nil {
		reset := len(args) > 0
		if !reset {
			if sess.State == nil {
				reset = true
			} else if reg, err := r.lookup(sess.State.Screen); err != nil || !reg.restore {
				reset = true
			}
		}
		if reset {
			sess.Reset()
		}
	}

	var state *domain.ScreenState
	var input *string

	if sess.IsNew() {
		if r.entry == "" {
			return "", fmt.Errorf("%w: no entry screen registered", domain.ErrScreenNotFound)
		}
		state = domain.NewScreenState(r.entry)
		sess.State = state
	} else {
		state = sess.State
		if state == nil {
			return "", fmt.Errorf("%w: session %s has no active screen", domain.ErrStateCorrupt, sess.Key)
		}
		if len(args) > 0 {
			input, args = &args[0], args[1:]
		}
	}

	for hop := 0; hop < maxHops; hop++ {
		reg, err := r.lookup(state.Screen)
		if err != nil {
			return "", err
		}

		req := screen.NewRequest(turn, sess, state)
		res, page, err := r.runner.Run(ctx, reg.factory(), req, input)
		if err != nil {
			r.logger.Error("screen dispatch failed",
				"screen", state.Screen,
				"msisdn", turn.Msisdn,
				"err", err,
			)
			return "", err
		}

		switch res.Type {
		case domain.TypeCon, domain.TypeEnd:
			sess.State = state
			return string(res.Type) + " " + page, nil

		case domain.TypePop:
			entry, err := hist.Pop(ctx, res.Levels)
			if err != nil {
				return "", err
			}
			if entry == nil {
				state = domain.NewScreenState(r.Home())
			} else {
				state = domain.NewScreenState(entry.Screen)
				state.Update(entry.Context)
			}
			state.Update(res.Context)
			sess.State = state
			input, args = shift(args)

		case domain.TypeHome:
			state = domain.NewScreenState(r.Home())
			state.Update(res.Context)
			sess.State = state
			input, args = shift(args)

		case domain.TypePush:
			name := r.Resolve(res.To)
			if _, err := r.lookup(name); err != nil {
				return "", err
			}
			state = domain.NewScreenState(name)
			state.Update(res.Context)
			sess.State = state

			hist.Push(ctx, session.Entry{Screen: name, Context: res.Context})

			// Carried input is consumed by the target as if dialed.
			if res.HasInput {
				args = append([]string{res.Input}, args...)
			}
			input, args = shift(args)

		default:
			return "", fmt.Errorf("screen %q returned unknown response type %q", state.Screen, res.Type)
		}
	}

	return "", fmt.Errorf("%w: dispatch exceeded %d hops", domain.ErrTooManyRedirects, maxHops)
}

// evalArgv computes this turn's new tokens from the dial string and the
// previous turn's vector, then stores the fresh vector on the session.
func (r *Router) evalArgv(turn *domain.Turn, sess *session.Session) []string {
	argv := domain.NewArgumentVector(turn.ServiceCode, turn.DialString, turn.BaseCode)

	var args []string
	if sess.IsStale() || sess.Argv == nil {
		args = argv.Args()
	} else {
		args = argv.Delta(sess.Argv)
	}
	sess.Argv = argv
	return args
}

func shift(args []string) (*string, []string) {
	if len(args) == 0 {
		return nil, nil
	}
	return &args[0], args[1:]
}
