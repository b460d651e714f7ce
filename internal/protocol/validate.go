package protocol

import "encoding/json"

// DecisionKind classifies a reassembled write payload.
type DecisionKind int

const (
	// Accepted: both fields present and typed correctly, password matches.
	Accepted DecisionKind = iota
	// AuthFailed: well-formed payload, wrong password.
	AuthFailed
	// BadFormat: valid JSON object but not the exact two-field shape.
	BadFormat
	// BadPayload: not a JSON object at all.
	BadPayload
)

func (k DecisionKind) String() string {
	switch k {
	case Accepted:
		return "Accepted"
	case AuthFailed:
		return "AuthFailed"
	case BadFormat:
		return "BadFormat"
	case BadPayload:
		return "BadPayload"
	default:
		return "Unknown"
	}
}

// Decision is the validator's verdict on one payload. Text is set only
// when Kind is Accepted.
type Decision struct {
	Kind DecisionKind
	Text string
}

// Validate parses data as the two-field write payload
// {"password": ..., "text": ...} and checks the password against
// expected. The comparison is byte-exact and case-sensitive; no
// trimming or normalization. Extra fields, missing fields, and
// wrongly-typed fields are BadFormat; anything that is not a JSON
// object is BadPayload.
//
// Validate has no side effects; applying an accepted text is the
// caller's job.
func Validate(data []byte, expected string) Decision {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Decision{Kind: BadPayload}
	}
	if fields == nil {
		// JSON null decodes into a nil map without error.
		return Decision{Kind: BadPayload}
	}
	if len(fields) != 2 {
		return Decision{Kind: BadFormat}
	}

	var password, text string
	raw, ok := fields["password"]
	if !ok || !decodeString(raw, &password) {
		return Decision{Kind: BadFormat}
	}
	raw, ok = fields["text"]
	if !ok || !decodeString(raw, &text) {
		return Decision{Kind: BadFormat}
	}

	if password != expected {
		return Decision{Kind: AuthFailed}
	}
	return Decision{Kind: Accepted, Text: text}
}

// decodeString decodes raw into dst, failing on any non-string value.
// Decoding through a pointer catches JSON null, which Unmarshal would
// otherwise leave as an untouched empty string.
func decodeString(raw json.RawMessage, dst *string) bool {
	var p *string
	if err := json.Unmarshal(raw, &p); err != nil || p == nil {
		return false
	}
	*dst = *p
	return true
}
