package domain

// Turn is one client request in the dialog, as handed over by the
// transport. The dial string accumulates across the conversation; the
// engine works out what is new via the ArgumentVector delta.
type Turn struct {
	// Msisdn is the subscriber identity. Required.
	Msisdn string

	// SessionID is the gateway conversation id, if the gateway sends one.
	// Empty means continuation is implied.
	SessionID string

	// DialString is the full accumulated input, e.g. "1*4*0.5".
	DialString string

	// ServiceCode is the short code the subscriber dialed, e.g. "*384#".
	ServiceCode string

	// BaseCode is an optional sub-code prefix to strip from DialString.
	BaseCode string
}
