package screen

import (
	"context"
	"fmt"

	"github.com/jawabu/ussd/pkg/domain"
)

// ActionHandler is what an Action does when its key is dialed. The three
// implementations cover the declarative cases: a redirect, a pop through
// history, and an arbitrary callback.
type ActionHandler interface {
	HandleAction(ctx context.Context, r *Request, value string) (*domain.Response, error)
}

// ActionFunc adapts a function to ActionHandler.
type ActionFunc func(ctx context.Context, r *Request, value string) (*domain.Response, error)

func (f ActionFunc) HandleAction(ctx context.Context, r *Request, value string) (*domain.Response, error) {
	return f(ctx, r, value)
}

type gotoHandler struct {
	to      string
	context map[string]any
}

func (g gotoHandler) HandleAction(ctx context.Context, r *Request, value string) (*domain.Response, error) {
	res := domain.Forward(g.to)
	for k, v := range g.context {
		res.With(k, v)
	}
	return res, nil
}

type backHandler struct {
	levels int
}

func (b backHandler) HandleAction(ctx context.Context, r *Request, value string) (*domain.Response, error) {
	return domain.Back(b.levels), nil
}

type homeHandler struct{}

func (homeHandler) HandleAction(ctx context.Context, r *Request, value string) (*domain.Response, error) {
	return domain.Home(), nil
}

// Goto redirects to the named screen, optionally seeding its state.
func Goto(to string, context ...map[string]any) ActionHandler {
	h := gotoHandler{to: to}
	for _, c := range context {
		if h.context == nil {
			h.context = make(map[string]any)
		}
		for k, v := range c {
			h.context[k] = v
		}
	}
	return h
}

// GoBack pops navigation history; GoBack(0) is the previous screen.
func GoBack(levels int) ActionHandler {
	return backHandler{levels: levels}
}

// GoHome redirects to the registered home screen.
func GoHome() ActionHandler {
	return homeHandler{}
}

// Do wraps a callback as an ActionHandler. Returning a nil response makes
// the turn fall through to the screen's normal render.
func Do(fn ActionFunc) ActionHandler {
	return fn
}

// Action is one declarative menu entry: a dial key, a label shown in the
// rendered menu, and what selecting it does.
type Action struct {
	// Key is the input token bound to the action.
	Key string

	// Label is the menu text.
	Label string

	// Name optionally identifies the action logically; defaults to Key.
	Name string

	// Handler runs when the key is dialed.
	Handler ActionHandler
}

func (a Action) name() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Key
}

func (a Action) String() string {
	return fmt.Sprintf("%-2s %s", a.Key, a.Label)
}

// ActionSet is an ordered, deduplicated collection of actions, indexed by
// dial key and by logical name. A nil ActionSet behaves as empty.
type ActionSet struct {
	actions []Action
	byKey   map[string]int
	byName  map[string]int
}

// NewActionSet builds a set, rejecting duplicate keys or names.
func NewActionSet(actions ...Action) (*ActionSet, error) {
	s := &ActionSet{
		byKey:  make(map[string]int),
		byName: make(map[string]int),
	}
	for _, a := range actions {
		if err := s.add(a); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MustActionSet is NewActionSet for declarative literals; it panics on
// duplicates, which are a programming error.
func MustActionSet(actions ...Action) *ActionSet {
	s, err := NewActionSet(actions...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *ActionSet) add(a Action) error {
	if _, dup := s.byKey[a.Key]; dup {
		return fmt.Errorf("duplicate action key %q", a.Key)
	}
	if _, dup := s.byName[a.name()]; dup {
		return fmt.Errorf("duplicate action name %q", a.name())
	}
	s.actions = append(s.actions, a)
	s.byKey[a.Key] = len(s.actions) - 1
	s.byName[a.name()] = len(s.actions) - 1
	return nil
}

// Union combines two sets, rejecting duplicate keys or names across them.
func (s *ActionSet) Union(o *ActionSet) (*ActionSet, error) {
	merged, err := NewActionSet(s.All()...)
	if err != nil {
		return nil, err
	}
	for _, a := range o.All() {
		if err := merged.add(a); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// Lookup finds the action bound to a dial key.
func (s *ActionSet) Lookup(key string) (Action, bool) {
	if s == nil {
		return Action{}, false
	}
	i, ok := s.byKey[key]
	if !ok {
		return Action{}, false
	}
	return s.actions[i], true
}

// ByName finds an action by its logical name.
func (s *ActionSet) ByName(name string) (Action, bool) {
	if s == nil {
		return Action{}, false
	}
	i, ok := s.byName[name]
	if !ok {
		return Action{}, false
	}
	return s.actions[i], true
}

// All returns the actions in declaration order.
func (s *ActionSet) All() []Action {
	if s == nil {
		return nil
	}
	return s.actions
}

// Len returns the number of actions.
func (s *ActionSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.actions)
}

// Render returns the menu lines for the action list footer.
func (s *ActionSet) Render() []string {
	if s == nil {
		return nil
	}
	lines := make([]string, len(s.actions))
	for i, a := range s.actions {
		lines[i] = a.String()
	}
	return lines
}

// DefaultNavActions is the conventional back/home navigation menu.
func DefaultNavActions() *ActionSet {
	return MustActionSet(
		Action{Key: "0", Label: "Back", Name: "back", Handler: GoBack(0)},
		Action{Key: "00", Label: "Home", Name: "home", Handler: GoHome()},
	)
}
