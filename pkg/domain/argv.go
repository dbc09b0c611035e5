package domain

import "strings"

// ArgumentVector is a tokenized dial string. The first element holds the
// service code (possibly composed with the base code); the rest are the
// subscriber's inputs in dialing order.
//
// USSD gateways resend the whole accumulated dial string every turn, so
// two consecutive vectors for the same conversation share a prefix. Delta
// recovers the genuinely new tokens.
type ArgumentVector struct {
	Tokens []string `json:"tokens"`
}

// NewArgumentVector tokenizes a raw dial string. A non-empty baseCode
// matching the front of the dial string is stripped and folded into the
// service code. Tokens split on `*` outside double quotes; quote
// characters are removed from tokens.
func NewArgumentVector(serviceCode, dialString, baseCode string) *ArgumentVector {
	if baseCode != "" && strings.HasPrefix(dialString, baseCode) {
		dialString = strings.TrimLeft(dialString[len(baseCode):], "*")
		if serviceCode != "" {
			serviceCode = serviceCode + "*" + baseCode
		}
	}

	tokens := []string{serviceCode}
	for _, tok := range splitDialString(dialString) {
		tokens = append(tokens, strings.ReplaceAll(tok, `"`, ""))
	}
	return &ArgumentVector{Tokens: tokens}
}

// splitDialString splits on `*` separators that are not inside a
// double-quoted segment. An empty string yields no tokens.
func splitDialString(s string) []string {
	if s == "" {
		return nil
	}
	var (
		parts  []string
		start  int
		quoted bool
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			quoted = !quoted
		case '*':
			if !quoted {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// ServiceCode returns the dialed code without any folded base code.
func (v *ArgumentVector) ServiceCode() string {
	if len(v.Tokens) == 0 {
		return ""
	}
	code, _, _ := strings.Cut(v.Tokens[0], "*")
	return code
}

// BaseCode returns the folded base code, or "" if none.
func (v *ArgumentVector) BaseCode() string {
	if len(v.Tokens) == 0 {
		return ""
	}
	_, base, _ := strings.Cut(v.Tokens[0], "*")
	return base
}

// Args returns the input tokens, excluding the leading code token.
func (v *ArgumentVector) Args() []string {
	if len(v.Tokens) <= 1 {
		return nil
	}
	return v.Tokens[1:]
}

// Delta returns the tokens of v that follow prev, when prev is exactly a
// prefix of v. Any prefix mismatch means the accumulated string was not
// an extension of the previous turn, so the whole argument list is
// returned and the conversation is treated as fresh.
func (v *ArgumentVector) Delta(prev *ArgumentVector) []string {
	if prev == nil {
		return v.Args()
	}
	ld := len(v.Tokens) - len(prev.Tokens)
	if ld > 0 && equalTokens(v.Tokens[:len(prev.Tokens)], prev.Tokens) {
		return v.Tokens[len(prev.Tokens):]
	}
	if ld == 0 && equalTokens(v.Tokens, prev.Tokens) {
		return nil
	}
	return v.Args()
}

func equalTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (v *ArgumentVector) String() string {
	return strings.Join(v.Tokens, "*")
}
