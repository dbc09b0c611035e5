package screen

import (
	"context"
	"fmt"

	"github.com/jawabu/ussd/pkg/domain"
	"github.com/jawabu/ussd/pkg/session"
)

// Screen marks a type as a dialog screen. A screen implements whichever
// of the capability interfaces below it needs; the Runner discovers them
// at invocation time. A screen with none of them renders an empty CON
// page, which is almost certainly not what you want.
type Screen interface{}

// Initializer runs once per screen state, before the first input is
// processed. Returning a non-nil response short-circuits the turn.
type Initializer interface {
	Init(ctx context.Context, r *Request) (*domain.Response, error)
}

// Validator cleans or rejects the turn's input before Handle sees it.
// Reject with a *domain.ValidationError to have the runner recover by
// re-rendering with the message prepended.
type Validator interface {
	Validate(ctx context.Context, r *Request, input string) (string, error)
}

// Handler processes validated input. Returning a nil response falls
// through to Render.
type Handler interface {
	Handle(ctx context.Context, r *Request, input string) (*domain.Response, error)
}

// Renderer produces the screen's output. Returning a nil response is
// shorthand for domain.Continue().
type Renderer interface {
	Render(ctx context.Context, r *Request) (*domain.Response, error)
}

// ActionProvider declares the screen's menu entries.
type ActionProvider interface {
	Actions(r *Request) *ActionSet
}

// NavActionProvider declares navigation entries (back/home) merged into
// the screen's action set. Most screens return DefaultNavActions().
type NavActionProvider interface {
	NavActions(r *Request) *ActionSet
}

// PageActionProvider overrides the pagination keys and marker labels.
type PageActionProvider interface {
	PageActions() (next, prev PageAction)
}

// PageAction is a pagination control: the key the subscriber dials and
// the marker text injected into the page.
type PageAction struct {
	Key   string
	Label string
}

func (p PageAction) String() string {
	return fmt.Sprintf("%-2s %s", p.Key, p.Label)
}

// Default pagination controls. The prev key deliberately matches the
// conventional Back action: action matching only runs on the first page,
// so "0" means "back a screen" there and "back a page" everywhere else.
var (
	DefaultNextPage = PageAction{Key: "99", Label: "More"}
	DefaultPrevPage = PageAction{Key: "0", Label: "Back"}
)

// Request is the per-invocation view a screen works with: the turn, the
// subscriber's session, the screen's durable state, and the payload the
// screen prints its output into.
type Request struct {
	Turn    *domain.Turn
	Session *session.Session
	State   *domain.ScreenState
	Payload *Payload
}

// NewRequest builds the invocation context for one screen run.
func NewRequest(turn *domain.Turn, sess *session.Session, state *domain.ScreenState) *Request {
	return &Request{
		Turn:    turn,
		Session: sess,
		State:   state,
		Payload: &Payload{},
	}
}

// Print appends a line to the screen's output.
func (r *Request) Print(objs ...any) {
	r.Payload.Append(objs...)
}

// Printf appends a formatted line to the screen's output.
func (r *Request) Printf(format string, args ...any) {
	r.Payload.Appendf(format, args...)
}
