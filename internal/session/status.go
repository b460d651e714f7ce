package session

import (
	"fmt"

	"github.com/chaz8081/badge2-textd/internal/protocol"
)

// Status labels shown on the local display. The set is fixed; only the
// buffering label carries a parameter.
const (
	StatusReady        = "Ready"
	StatusStarting     = "Starting..."
	StatusAdvertising  = "Advertising..."
	StatusWaiting      = "Waiting for conn..."
	StatusConnected    = "Connected!"
	StatusListening    = "Listening..."
	StatusUpdated      = "Updated!"
	StatusAuthFailed   = "Auth failed"
	StatusBadFormat    = "Bad format"
	StatusBadPayload   = "Bad payload"
	StatusOverflow     = "Buffer overflow"
	StatusDisconnected = "Disconnected"
	StatusWriteError   = "Write error"
	StatusBTError      = "BT Error"
)

// BufferingStatus is the label shown while a write is partially
// reassembled, parameterized by the current buffer length.
func BufferingStatus(n int) string {
	return fmt.Sprintf("Buffering (%db)...", n)
}

// decisionStatus maps a validator verdict to its display label.
func decisionStatus(k protocol.DecisionKind) string {
	switch k {
	case protocol.Accepted:
		return StatusUpdated
	case protocol.AuthFailed:
		return StatusAuthFailed
	case protocol.BadFormat:
		return StatusBadFormat
	case protocol.BadPayload:
		return StatusBadPayload
	default:
		return StatusBadPayload
	}
}
