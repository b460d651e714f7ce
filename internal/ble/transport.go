// Package ble provides the peripheral-side BLE transport for the badge
// text service: advertising, accepting a single central, delivering
// raw write fragments, and publishing the current text for reads.
package ble

import (
	"context"
	"time"
)

// Badge text service UUIDs.
const (
	DefaultServiceUUID = "12345678-1234-5678-1234-56789abcdef0"
	DefaultCharUUID    = "12345678-1234-5678-1234-56789abcdef1"
)

// EventKind discriminates the result of one bounded listen.
type EventKind int

const (
	// EventFragment carries one raw write fragment from the central.
	EventFragment EventKind = iota
	// EventTimeout means the wait elapsed with no data. Not an error;
	// the caller re-listens after doing other work.
	EventTimeout
	// EventDisconnected means the central dropped the connection.
	EventDisconnected
	// EventError is a non-recoverable transport failure during listen.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventFragment:
		return "Fragment"
	case EventTimeout:
		return "Timeout"
	case EventDisconnected:
		return "Disconnected"
	case EventError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Event is the outcome of NextWrite. Data is set for EventFragment,
// Err for EventError.
type Event struct {
	Kind EventKind
	Data []byte
	Err  error
}

// Transport abstracts the BLE peripheral hardware for testing. The
// contract is single-peer: once a central connects, the transport does
// not accept another until the session returns to idle and
// re-advertises.
type Transport interface {
	// Enable powers on the BLE stack and registers the GATT service.
	Enable() error
	// Advertise starts advertising under the given local name.
	Advertise(name string) error
	// StopAdvertise stops advertising.
	StopAdvertise() error
	// WaitForConnection blocks until a central connects or ctx is done.
	WaitForConnection(ctx context.Context) error
	// NextWrite waits up to timeout for the next write fragment,
	// disconnect, or transport failure.
	NextWrite(timeout time.Duration) Event
	// SetReadValue publishes value as the characteristic's read value.
	SetReadValue(value []byte) error
	// Close releases the transport.
	Close() error
}
