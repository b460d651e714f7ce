// Package session drives the badge's connection lifecycle: advertise,
// accept one central, reassemble and validate writes, commit accepted
// text, and fall back to idle on disconnect or error.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chaz8081/badge2-textd/internal/ble"
	"github.com/chaz8081/badge2-textd/internal/display"
	"github.com/chaz8081/badge2-textd/internal/protocol"
	"github.com/chaz8081/badge2-textd/internal/store"
)

// Phase is the connection state machine's state.
type Phase int

const (
	// Idle is the initial state and the state reentered after any
	// terminal outcome.
	Idle Phase = iota
	// Advertising means the badge is discoverable and waiting for a
	// central.
	Advertising
	// Connected means exactly one central is attached and writes are
	// being listened for.
	Connected
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Advertising:
		return "advertising"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// Options configures the session loop.
type Options struct {
	DeviceName    string        // advertised local name
	BaseURL       string        // pairing URL base for the QR code
	ListenTimeout time.Duration // bounded wait per listen cycle
	MaxPayload    int           // reassembly buffer ceiling in bytes
	RetryDelay    time.Duration // pause before retrying after a transport error
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		DeviceName:    "badge2-text",
		BaseURL:       "https://badge2.example/pair",
		ListenTimeout: 2 * time.Second,
		MaxPayload:    protocol.MaxPayloadBytes,
		RetryDelay:    time.Second,
	}
}

// Session owns the state machine, the reassembly buffer, and the
// displayed text for one device. A single goroutine drives it; nothing
// here is safe for concurrent use.
type Session struct {
	transport ble.Transport
	store     store.Store
	disp      display.Display
	password  string
	opts      Options

	phase Phase
	buf   *protocol.Buffer
	text  string
}

// New creates a session. The password is owned by the caller and held
// for the process lifetime; the stored text is loaded immediately so
// the first read returns something sensible.
func New(transport ble.Transport, st store.Store, disp display.Display, password string, opts Options) (*Session, error) {
	if opts.DeviceName == "" {
		opts.DeviceName = "badge2-text"
	}
	if opts.ListenTimeout <= 0 {
		opts.ListenTimeout = 2 * time.Second
	}
	if opts.MaxPayload <= 0 {
		opts.MaxPayload = protocol.MaxPayloadBytes
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}
	if password == "" {
		return nil, fmt.Errorf("session: password must not be empty")
	}

	text, err := st.Load()
	if err != nil {
		return nil, fmt.Errorf("session: load text: %w", err)
	}

	return &Session{
		transport: transport,
		store:     st,
		disp:      disp,
		password:  password,
		opts:      opts,
		phase:     Idle,
		buf:       protocol.NewBuffer(opts.MaxPayload),
		text:      text,
	}, nil
}

// Text returns the current displayed text.
func (s *Session) Text() string {
	return s.text
}

// Phase returns the current state machine phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Run drives connection cycles until ctx is cancelled. Every failure
// path inside a cycle lands back in idle and the next cycle starts; the
// only way out is cancellation or a transport that cannot even enable.
func (s *Session) Run(ctx context.Context) error {
	s.disp.ShowStatus(StatusStarting)
	if err := s.transport.Enable(); err != nil {
		return fmt.Errorf("session: enable transport: %w", err)
	}
	defer s.transport.Close()

	s.disp.ShowText(s.text)
	s.disp.ShowPairing(s.password, PairingURL(s.opts.BaseURL, s.password))
	if err := s.transport.SetReadValue([]byte(s.text)); err != nil {
		slog.Warn("[session] publish initial text", "error", err)
	}
	s.disp.ShowStatus(StatusReady)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.runCycle(ctx)
	}
}

// runCycle is one pass through idle → advertising → connected → idle.
func (s *Session) runCycle(ctx context.Context) {
	s.setPhase(Advertising)
	s.disp.ShowStatus(StatusAdvertising)
	if err := s.transport.Advertise(s.opts.DeviceName); err != nil {
		slog.Warn("[session] advertise failed", "error", err)
		s.disp.ShowStatus(StatusBTError)
		s.toIdle()
		sleepCtx(ctx, s.opts.RetryDelay)
		return
	}

	s.disp.ShowStatus(StatusWaiting)
	if err := s.transport.WaitForConnection(ctx); err != nil {
		if ctx.Err() == nil {
			slog.Warn("[session] wait for connection failed", "error", err)
			s.disp.ShowStatus(StatusBTError)
			sleepCtx(ctx, s.opts.RetryDelay)
		}
		s.stopAdvertising()
		s.toIdle()
		return
	}

	// One central at a time: stop advertising for the whole session.
	s.stopAdvertising()

	s.setPhase(Connected)
	s.buf.Reset()
	id := uuid.NewString()
	slog.Info("[session] central connected", "session", id)
	s.disp.ShowStatus(StatusConnected)

	s.listen(ctx, id)
	s.toIdle()
}

// listen pulls write events until disconnect, error, or cancellation.
func (s *Session) listen(ctx context.Context, id string) {
	s.disp.ShowStatus(StatusListening)
	for {
		if ctx.Err() != nil {
			return
		}
		ev := s.transport.NextWrite(s.opts.ListenTimeout)
		switch ev.Kind {
		case ble.EventTimeout:
			// No data this cycle. Returning control here is what lets
			// the display refresh between waits.
			continue
		case ble.EventFragment:
			s.handleFragment(ev.Data)
		case ble.EventDisconnected:
			slog.Info("[session] central disconnected", "session", id)
			s.disp.ShowStatus(StatusDisconnected)
			return
		case ble.EventError:
			slog.Warn("[session] listen failed", "session", id, "error", ev.Err)
			s.disp.ShowStatus(StatusBTError)
			return
		}
	}
}

// handleFragment feeds one fragment through the buffer and, on a
// complete payload, through the validator.
func (s *Session) handleFragment(frag []byte) {
	switch s.buf.Append(frag) {
	case protocol.Overflow:
		slog.Warn("[session] write overflowed reassembly buffer")
		s.disp.ShowStatus(StatusOverflow)
	case protocol.Incomplete:
		s.disp.ShowStatus(BufferingStatus(s.buf.Len()))
	case protocol.Ready:
		d := protocol.Validate(s.buf.Bytes(), s.password)
		s.buf.Reset()
		if d.Kind == protocol.Accepted {
			s.apply(d.Text)
			return
		}
		// Rejections are silent toward the peer: only the local status
		// label changes, the connection stays up.
		slog.Info("[session] write rejected", "reason", d.Kind.String())
		s.disp.ShowStatus(decisionStatus(d.Kind))
	}
}

// apply commits an accepted text: in-memory, read characteristic,
// display, and persistence, in that order.
func (s *Session) apply(text string) {
	s.text = text
	s.disp.ShowText(text)
	if err := s.transport.SetReadValue([]byte(text)); err != nil {
		slog.Warn("[session] publish text", "error", err)
	}
	if err := s.store.Save(text); err != nil {
		slog.Error("[session] persist text", "error", err)
		s.disp.ShowStatus(StatusWriteError)
		return
	}
	slog.Info("[session] text updated", "bytes", len(text))
	s.disp.ShowStatus(StatusUpdated)
}

func (s *Session) setPhase(p Phase) {
	if s.phase != p {
		slog.Debug("[session] phase change", "from", s.phase.String(), "to", p.String())
		s.phase = p
	}
}

// toIdle discards any partial buffer and reenters the initial state.
func (s *Session) toIdle() {
	s.buf.Reset()
	s.setPhase(Idle)
}

func (s *Session) stopAdvertising() {
	if err := s.transport.StopAdvertise(); err != nil {
		slog.Warn("[session] stop advertising", "error", err)
	}
}

// sleepCtx sleeps for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
