package screen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jawabu/ussd/internal/logging"
	"github.com/jawabu/ussd/pkg/domain"
)

// wireReserve is the room kept for the "CON "/"END " tag the transport
// prepends to every page.
const wireReserve = 4

// Runner drives one screen through one turn: action dispatch, page
// navigation over cached pages, the init/validate/handle/render hooks,
// validation-error recovery, and pagination of the result.
type Runner struct {
	maxPageLength int
	logger        *slog.Logger
}

// NewRunner creates a lifecycle runner. maxPageLength is the transport's
// page limit including the response tag.
func NewRunner(maxPageLength int, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{maxPageLength: maxPageLength, logger: logger}
}

// Run invokes sc for one turn. input is the turn's new token, or nil when
// the subscriber sent nothing new. For CON/END results the returned page
// is the one to put on the wire; redirects come back with an empty page
// for the dispatcher to resolve.
func (rn *Runner) Run(ctx context.Context, sc Screen, req *Request, input *string) (*domain.Response, string, error) {
	actions, err := rn.actionsFor(sc, req)
	if err != nil {
		return nil, "", err
	}
	next, prev := rn.pageActionsFor(sc)

	var key *string
	if input != nil {
		k := strings.TrimSpace(*input)
		key = &k
	}

	// Menu actions only apply on the first page; beyond it the same keys
	// belong to page navigation.
	if req.State.Page == 0 && key != nil {
		if act, ok := actions.Lookup(*key); ok {
			res, err := act.Handler.HandleAction(ctx, req, *key)
			if err != nil {
				return nil, "", fmt.Errorf("action %q failed: %w", act.name(), err)
			}
			if res != nil {
				return res, "", nil
			}
			input, key = nil, nil
		}
	}

	// Page navigation replays cached pages without re-running any hook.
	if key != nil && len(req.State.Pages) > 1 {
		switch *key {
		case next.Key:
			if req.State.Page < len(req.State.Pages)-1 {
				req.State.Page++
				return rn.replay(req)
			}
		case prev.Key:
			if req.State.Page > 0 {
				req.State.Page--
				return rn.replay(req)
			}
		}
	}

	res, err := rn.lifecycle(ctx, sc, req, input, actions)
	if err != nil {
		return nil, "", err
	}

	if res.Type != domain.TypeCon && res.Type != domain.TypeEnd {
		return res, "", nil
	}

	// END suppresses the menu footer; there is nothing left to select.
	var footer []string
	if res.Type == domain.TypeCon {
		footer = actions.Render()
	}

	req.State.Tag = string(res.Type)
	req.State.Pages = req.Payload.Paginate(rn.maxPageLength-wireReserve, next.String(), prev.String(), footer)
	req.State.Page = 0
	return res, req.State.Pages[0], nil
}

// lifecycle runs the hook sequence, recovering validation errors by
// re-rendering with the message prepended.
func (rn *Runner) lifecycle(ctx context.Context, sc Screen, req *Request, input *string, actions *ActionSet) (*domain.Response, error) {
	var res *domain.Response
	var err error

	if !req.State.Initialized {
		if init, ok := sc.(Initializer); ok {
			res, err = init.Init(ctx, req)
		}
		req.State.Initialized = true
	}

	if res == nil && err == nil && input != nil {
		val := *input
		if v, ok := sc.(Validator); ok {
			val, err = v.Validate(ctx, req, val)
		}
		if err == nil {
			if h, ok := sc.(Handler); ok {
				res, err = h.Handle(ctx, req, val)
			} else if actions.Len() > 0 {
				// Input that matched no action on a menu-only screen.
				req.Print("Invalid choice!")
			}
		}
	}

	if err != nil {
		if input == nil || !domain.IsValidation(err) {
			return nil, err
		}
		var ve *domain.ValidationError
		errors.As(err, &ve)
		req.Payload.Prepend(ve.Error())
		res = nil
	}

	if res == nil {
		if rdr, ok := sc.(Renderer); ok {
			res, err = rdr.Render(ctx, req)
			if err != nil {
				return nil, err
			}
		}
	}
	if res == nil {
		res = domain.Continue()
	}
	return res, nil
}

// replay returns the page the cursor now points at, under the tag stored
// when the pages were rendered.
func (rn *Runner) replay(req *Request) (*domain.Response, string, error) {
	res := &domain.Response{Type: domain.ResponseType(req.State.Tag)}
	return res, req.State.Pages[req.State.Page], nil
}

func (rn *Runner) actionsFor(sc Screen, req *Request) (*ActionSet, error) {
	var set *ActionSet
	if ap, ok := sc.(ActionProvider); ok {
		set = ap.Actions(req)
	}
	if np, ok := sc.(NavActionProvider); ok {
		nav := np.NavActions(req)
		if set == nil {
			return nav, nil
		}
		merged, err := set.Union(nav)
		if err != nil {
			return nil, fmt.Errorf("screen %q action sets collide: %w", req.State.Screen, err)
		}
		return merged, nil
	}
	return set, nil
}

func (rn *Runner) pageActionsFor(sc Screen) (next, prev PageAction) {
	if pp, ok := sc.(PageActionProvider); ok {
		return pp.PageActions()
	}
	return DefaultNextPage, DefaultPrevPage
}
