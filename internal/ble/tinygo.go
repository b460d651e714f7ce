package ble

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tinygo.org/x/bluetooth"
)

// TinyGoTransport implements Transport on top of tinygo-org/bluetooth,
// which backs onto BlueZ on Linux, CoreBluetooth on macOS, and the
// SoftDevice on supported microcontrollers.
type TinyGoTransport struct {
	adapter     *bluetooth.Adapter
	serviceUUID bluetooth.UUID
	charUUID    bluetooth.UUID

	adv  *bluetooth.Advertisement
	char bluetooth.Characteristic

	// The stack delivers write events and connection changes on its own
	// callback goroutine; channels bridge them into the session's
	// single-threaded loop.
	fragments   chan []byte
	connects    chan struct{}
	disconnects chan struct{}

	enabled bool
}

// NewTinyGoTransport creates a transport exposing one service with one
// read/write characteristic under the given UUIDs.
func NewTinyGoTransport(serviceUUID, charUUID string) (*TinyGoTransport, error) {
	svc, err := bluetooth.ParseUUID(serviceUUID)
	if err != nil {
		return nil, fmt.Errorf("ble: parse service UUID: %w", err)
	}
	chr, err := bluetooth.ParseUUID(charUUID)
	if err != nil {
		return nil, fmt.Errorf("ble: parse characteristic UUID: %w", err)
	}
	return &TinyGoTransport{
		adapter:     bluetooth.DefaultAdapter,
		serviceUUID: svc,
		charUUID:    chr,
		fragments:   make(chan []byte, 16),
		connects:    make(chan struct{}, 1),
		disconnects: make(chan struct{}, 1),
	}, nil
}

// Enable powers on the stack, registers the GATT service, and hooks the
// connect handler. Must be called before Advertise.
func (t *TinyGoTransport) Enable() error {
	if t.enabled {
		return nil
	}
	if err := t.adapter.Enable(); err != nil {
		return fmt.Errorf("ble: enable adapter: %w", err)
	}

	t.adapter.SetConnectHandler(func(device bluetooth.Device, connected bool) {
		if connected {
			select {
			case t.connects <- struct{}{}:
			default:
			}
			return
		}
		select {
		case t.disconnects <- struct{}{}:
		default:
		}
	})

	err := t.adapter.AddService(&bluetooth.Service{
		UUID: t.serviceUUID,
		Characteristics: []bluetooth.CharacteristicConfig{
			{
				Handle: &t.char,
				UUID:   t.charUUID,
				Flags: bluetooth.CharacteristicReadPermission |
					bluetooth.CharacteristicWritePermission |
					bluetooth.CharacteristicWriteWithoutResponsePermission,
				WriteEvent: func(client bluetooth.Connection, offset int, value []byte) {
					// Fragments arrive in order; offset is informational
					// for prepared writes and reassembly happens upstream.
					frag := make([]byte, len(value))
					copy(frag, value)
					select {
					case t.fragments <- frag:
					default:
						slog.Warn("[BLE] fragment channel full, dropping write", "len", len(frag))
					}
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ble: add service: %w", err)
	}

	t.enabled = true
	return nil
}

// Advertise starts advertising the service under name.
func (t *TinyGoTransport) Advertise(name string) error {
	adv := t.adapter.DefaultAdvertisement()
	if err := adv.Configure(bluetooth.AdvertisementOptions{
		LocalName:    name,
		ServiceUUIDs: []bluetooth.UUID{t.serviceUUID},
	}); err != nil {
		return fmt.Errorf("ble: configure advertisement: %w", err)
	}
	if err := adv.Start(); err != nil {
		return fmt.Errorf("ble: start advertising: %w", err)
	}
	t.adv = adv
	return nil
}

// StopAdvertise stops advertising. Called on connection accept so a
// second central cannot attach mid-session.
func (t *TinyGoTransport) StopAdvertise() error {
	if t.adv == nil {
		return nil
	}
	if err := t.adv.Stop(); err != nil {
		return fmt.Errorf("ble: stop advertising: %w", err)
	}
	return nil
}

// WaitForConnection blocks until a central connects or ctx is done.
func (t *TinyGoTransport) WaitForConnection(ctx context.Context) error {
	// A disconnect left over from a previous session is stale here.
	select {
	case <-t.disconnects:
	default:
	}

	select {
	case <-t.connects:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NextWrite waits up to timeout for the next fragment or lifecycle
// event. A timer per call is fine at a 2-second cadence.
func (t *TinyGoTransport) NextWrite(timeout time.Duration) Event {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case frag := <-t.fragments:
		return Event{Kind: EventFragment, Data: frag}
	case <-t.disconnects:
		return Event{Kind: EventDisconnected}
	case <-timer.C:
		return Event{Kind: EventTimeout}
	}
}

// SetReadValue publishes value on the characteristic so centrals read
// the current text.
func (t *TinyGoTransport) SetReadValue(value []byte) error {
	if _, err := t.char.Write(value); err != nil {
		return fmt.Errorf("ble: set read value: %w", err)
	}
	return nil
}

// Close stops advertising. tinygo/bluetooth has no adapter teardown.
func (t *TinyGoTransport) Close() error {
	return t.StopAdvertise()
}

// Compile-time check that TinyGoTransport implements Transport.
var _ Transport = (*TinyGoTransport)(nil)
