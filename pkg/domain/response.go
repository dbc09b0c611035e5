package domain

// ResponseType tags a screen's result.
type ResponseType string

const (
	// TypeCon keeps the dialog open and shows a page.
	TypeCon ResponseType = "CON"
	// TypeEnd shows a page and terminates the dialog.
	TypeEnd ResponseType = "END"
	// TypePush transfers control forward to another screen.
	TypePush ResponseType = "PUSH"
	// TypePop transfers control back through navigation history.
	TypePop ResponseType = "POP"
	// TypeHome transfers control to the registered home screen.
	TypeHome ResponseType = "HOME"
)

// Response is what a screen hook or action yields for a turn. CON and END
// are terminal for the dispatch loop; PUSH, POP and HOME are redirects the
// dispatcher resolves before producing the wire response.
type Response struct {
	Type ResponseType

	// To is the redirect target for PUSH. Names starting with "." are
	// resolved relative to the router.
	To string

	// Levels is the POP depth: 0 pops to the immediately previous
	// screen, 1 to the one before it, and so on.
	Levels int

	// Input is optional synthetic input a PUSH carries into the target
	// screen, consumed as if the subscriber had dialed it.
	Input string

	// HasInput marks Input as present; "" is a valid token.
	HasInput bool

	// Context seeds the target screen's state on PUSH/POP/HOME.
	Context map[string]any
}

// Continue ends the lifecycle with a CON page built from the payload.
func Continue() *Response { return &Response{Type: TypeCon} }

// End ends the lifecycle and the dialog with an END page.
func End() *Response { return &Response{Type: TypeEnd} }

// Forward redirects to the named screen.
func Forward(to string) *Response { return &Response{Type: TypePush, To: to} }

// Back pops navigation history. Back(0) returns to the immediately
// previous screen.
func Back(levels int) *Response { return &Response{Type: TypePop, Levels: levels} }

// Home redirects to the registered home screen with fresh state.
func Home() *Response { return &Response{Type: TypeHome} }

// With adds a context value carried into the target screen's state.
func (r *Response) With(key string, value any) *Response {
	if r.Context == nil {
		r.Context = make(map[string]any)
	}
	r.Context[key] = value
	return r
}

// WithInput attaches synthetic input consumed by the redirect target.
func (r *Response) WithInput(input string) *Response {
	r.Input, r.HasInput = input, true
	return r
}

// Redirect reports whether the response transfers control rather than
// rendering a page.
func (r *Response) Redirect() bool {
	return r.Type == TypePush || r.Type == TypePop || r.Type == TypeHome
}
