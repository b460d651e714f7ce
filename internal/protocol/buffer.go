// Package protocol implements the wire protocol for badge text updates:
// reassembly of fragmented JSON writes and validation of the
// password-gated payload.
package protocol

import "encoding/json"

// MaxPayloadBytes is the ceiling on a reassembled write. A logical write
// larger than this is rejected and the buffer reset.
const MaxPayloadBytes = 512

// Outcome is the result of appending one fragment to a Buffer.
type Outcome int

const (
	// Incomplete means the buffer does not yet hold a complete JSON
	// document. This also covers input that will never become valid;
	// the buffer cannot tell the two apart and relies on the size
	// ceiling to recover from the latter.
	Incomplete Outcome = iota
	// Ready means the buffer holds a syntactically complete document.
	Ready
	// Overflow means the fragment pushed the buffer past its limit.
	// The buffer has been reset as a side effect.
	Overflow
)

func (o Outcome) String() string {
	switch o {
	case Incomplete:
		return "Incomplete"
	case Ready:
		return "Ready"
	case Overflow:
		return "Overflow"
	default:
		return "Unknown"
	}
}

// Buffer accumulates write fragments until they form a complete JSON
// payload. It is not safe for concurrent use; a Buffer belongs to
// exactly one session at a time.
type Buffer struct {
	data []byte
	max  int
}

// NewBuffer returns a Buffer bounded at max bytes. A non-positive max
// falls back to MaxPayloadBytes.
func NewBuffer(max int) *Buffer {
	if max <= 0 {
		max = MaxPayloadBytes
	}
	return &Buffer{max: max}
}

// Append adds fragment to the buffer and reports whether a complete
// payload is now available. On Ready the caller takes the bytes with
// Bytes and must call Reset after consuming them. On Overflow the
// buffer has already been reset.
func (b *Buffer) Append(fragment []byte) Outcome {
	if len(b.data)+len(fragment) > b.max {
		b.Reset()
		return Overflow
	}
	b.data = append(b.data, fragment...)
	if json.Valid(b.data) {
		return Ready
	}
	return Incomplete
}

// Bytes returns the accumulated payload. The slice aliases the buffer's
// internal storage and is only valid until the next Append or Reset.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Reset discards all buffered bytes.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
}
