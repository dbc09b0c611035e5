package domain

import "github.com/mitchellh/mapstructure"

// ScreenState is the durable per-session record of the active screen. It
// is owned by exactly one session and replaced wholesale on every
// redirect. Pagination bookkeeping lives in dedicated fields; everything
// a screen stores for itself goes in Data.
type ScreenState struct {
	// Screen is the registered name of the screen this state belongs to.
	Screen string `json:"screen"`

	// Initialized is set after the screen's one-time Init hook has run.
	Initialized bool `json:"initialized,omitempty"`

	// Pages holds the rendered pages of the last CONTINUE/END response.
	Pages []string `json:"pages,omitempty"`

	// Page is the cursor into Pages.
	Page int `json:"page,omitempty"`

	// Tag is the response tag (CON/END) to replay while paging.
	Tag string `json:"tag,omitempty"`

	// Data is the screen's own key/value state.
	Data map[string]any `json:"data,omitempty"`
}

// NewScreenState returns fresh state bound to the named screen.
func NewScreenState(screen string) *ScreenState {
	return &ScreenState{Screen: screen, Data: make(map[string]any)}
}

// Get returns the value stored under key, or nil.
func (s *ScreenState) Get(key string) any {
	return s.Data[key]
}

// GetString returns the string stored under key, or "".
func (s *ScreenState) GetString(key string) string {
	v, _ := s.Data[key].(string)
	return v
}

// Set stores value under key.
func (s *ScreenState) Set(key string, value any) {
	if s.Data == nil {
		s.Data = make(map[string]any)
	}
	s.Data[key] = value
}

// Update merges values into the state's data. Nil maps are ignored.
func (s *ScreenState) Update(values map[string]any) {
	for k, v := range values {
		s.Set(k, v)
	}
}

// Decode unpacks the state's data into a typed struct. Redirect context
// and values restored from history arrive as generic maps; this is the
// bridge back to screen-defined types.
func (s *ScreenState) Decode(out any) error {
	return mapstructure.Decode(s.Data, out)
}
